package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID              string   `dynamodbav:"userId" json:"userId"` // ✅ Partition Key
	Name                string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	EmailID             string   `dynamodbav:"emailId,omitempty" json:"emailId,omitempty"`
	Bio                 string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	DOB                 string   `dynamodbav:"dob,omitempty" json:"dob,omitempty"`
	Gender              string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	ShowGenderOnProfile bool     `dynamodbav:"showGenderOnProfile,omitempty" json:"showGenderOnProfile,omitempty"`
	Colleges            []string `dynamodbav:"colleges,omitempty" json:"colleges,omitempty"`
	Interests           []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Personality         []string `dynamodbav:"personality,omitempty" json:"personality,omitempty"`
	LookingFor          string   `dynamodbav:"lookingFor,omitempty" json:"lookingFor,omitempty"`
	Photos              []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"` // blob-store URLs

	// Relation sets. A counterpart id appears in at most one of likedUsers and
	// messageRequests at any time; approval and decline move it atomically.
	LikedUsers      []string `dynamodbav:"likedUsers,stringset,omitempty" json:"likedUsers,omitempty"`
	MessageRequests []string `dynamodbav:"messageRequests,stringset,omitempty" json:"messageRequests,omitempty"`
	BlockedUsers    []string `dynamodbav:"blockedUsers,stringset,omitempty" json:"blockedUsers,omitempty"`
}

// HasBlocked reports whether this profile's own blocked set contains userID.
func (p UserProfile) HasBlocked(userID string) bool {
	for _, id := range p.BlockedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "Users"
