package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"campusmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type UserProfileService struct {
	Dynamo *DynamoService
}

var _ ProfileStore = (*UserProfileService)(nil)

// AddUserProfile adds a new user profile to DynamoDB
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.UserID == "" {
		return nil, errors.New("profile is missing userId")
	}
	if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfile retrieves a user profile by id, or nil when the user is unknown.
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return &profile, nil
}

// UpdateUserProfile updates string-valued profile fields
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID string, updates map[string]string) (*models.UserProfile, error) {
	if len(updates) == 0 {
		return ups.GetProfile(ctx, userID)
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for k, v := range updates {
		placeholder := ":" + k
		attributeName := "#" + k
		updateExpression += " " + attributeName + " = " + placeholder + ","

		expressionAttributeValues[placeholder] = &types.AttributeValueMemberS{Value: v}
		expressionAttributeNames[attributeName] = k
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, err
	}
	return &updatedProfile, nil
}

// SetPhotos replaces the profile's photo URL list. The URLs come from the
// blob store after upload; this service never touches image bytes.
func (ups *UserProfileService) SetPhotos(ctx context.Context, userID string, photoURLs []string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	photos, err := attributevalue.Marshal(photoURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal photo list: %w", err)
	}

	_, err = ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, "SET photos = :photos", key,
		map[string]types.AttributeValue{":photos": photos}, nil)
	if err != nil {
		return fmt.Errorf("failed to update photos for %s: %w", userID, err)
	}
	return nil
}

// DeleteUserProfile removes a user profile from DynamoDB
func (ups *UserProfileService) DeleteUserProfile(ctx context.Context, userID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	return ups.Dynamo.DeleteItem(ctx, models.UserProfilesTable, key)
}

// AddToSet adds a member to one of the profile's relation string sets. ADD on
// a string set is an idempotent union: existing membership is a no-op.
func (ups *UserProfileService) AddToSet(ctx context.Context, userID, attribute, member string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "ADD #attr :member"
	expressionValues := map[string]types.AttributeValue{
		":member": &types.AttributeValueMemberSS{Value: []string{member}},
	}
	expressionNames := map[string]string{"#attr": attribute}

	if _, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return fmt.Errorf("failed to add %s to %s of %s: %w", member, attribute, userID, err)
	}

	log.Printf("👤 %s: added %s to %s", userID, member, attribute)
	return nil
}

// RemoveFromSet removes a member from a relation set. Removing an absent
// member is a no-op, not an error.
func (ups *UserProfileService) RemoveFromSet(ctx context.Context, userID, attribute, member string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "DELETE #attr :member"
	expressionValues := map[string]types.AttributeValue{
		":member": &types.AttributeValueMemberSS{Value: []string{member}},
	}
	expressionNames := map[string]string{"#attr": attribute}

	if _, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return fmt.Errorf("failed to remove %s from %s of %s: %w", member, attribute, userID, err)
	}

	log.Printf("👤 %s: removed %s from %s", userID, member, attribute)
	return nil
}

// MoveBetweenSets removes a member from one relation set and adds it to
// another in a single update, so it never appears in both.
func (ups *UserProfileService) MoveBetweenSets(ctx context.Context, userID, fromAttr, toAttr, member string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "ADD #to :member DELETE #from :member"
	expressionValues := map[string]types.AttributeValue{
		":member": &types.AttributeValueMemberSS{Value: []string{member}},
	}
	expressionNames := map[string]string{
		"#to":   toAttr,
		"#from": fromAttr,
	}

	if _, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return fmt.Errorf("failed to move %s from %s to %s of %s: %w", member, fromAttr, toAttr, userID, err)
	}

	log.Printf("👤 %s: moved %s from %s to %s", userID, member, fromAttr, toAttr)
	return nil
}
