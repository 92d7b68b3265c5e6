package entity

import (
	"time"
)

const (
	RoleFarmer    = "farmer"
	RoleLandowner = "landowner"
)

type Address struct {
	Street   string `json:"street,omitempty" firestore:"street" bson:"street"`
	Village  string `json:"village,omitempty" firestore:"village" bson:"village"`
	City     string `json:"city,omitempty" firestore:"city" bson:"city"`
	District string `json:"district,omitempty" firestore:"district" bson:"district"`
	State    string `json:"state,omitempty" firestore:"state" bson:"state"`
	Pincode  string `json:"pincode,omitempty" firestore:"pincode" bson:"pincode"`
}

type BankDetails struct {
	AccountNumber string `json:"accountNumber,omitempty" firestore:"accountNumber" bson:"accountNumber"`
	IFSCCode      string `json:"ifscCode,omitempty" firestore:"ifscCode" bson:"ifscCode"`
	BankName      string `json:"bankName,omitempty" firestore:"bankName" bson:"bankName"`
}

type Document struct {
	DocumentType string    `json:"documentType" firestore:"documentType" bson:"documentType"`
	DocumentURL  string    `json:"documentUrl" firestore:"documentUrl" bson:"documentUrl"`
	Verified     bool      `json:"verified" firestore:"verified" bson:"verified"`
	UploadedAt   time.Time `json:"uploadedAt" firestore:"uploadedAt" bson:"uploadedAt"`
}

type User struct {
	ID           string `json:"id" firestore:"id" bson:"_id"`
	Name         string `json:"name" firestore:"name" bson:"name"`
	Email        string `json:"email" firestore:"email" bson:"email"`
	Phone        string `json:"phone,omitempty" firestore:"phone" bson:"phone"`
	PasswordHash string `json:"-" firestore:"passwordHash" bson:"passwordHash"`
	Role         string `json:"role" firestore:"role" bson:"role"`

	Address           Address      `json:"address" firestore:"address" bson:"address"`
	FarmingExperience int          `json:"farmingExperience,omitempty" firestore:"farmingExperience" bson:"farmingExperience"`
	PreferredCrops    []string     `json:"preferredCrops,omitempty" firestore:"preferredCrops" bson:"preferredCrops"`
	BankDetails       *BankDetails `json:"bankDetails,omitempty" firestore:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	ProfileImage      string       `json:"profileImage,omitempty" firestore:"profileImage" bson:"profileImage"`
	LandDocuments     []Document   `json:"landDocuments,omitempty" firestore:"landDocuments" bson:"landDocuments"`

	Rating       float64 `json:"rating" firestore:"rating" bson:"rating"`
	TotalRatings int     `json:"totalRatings" firestore:"totalRatings" bson:"totalRatings"`
	IsVerified   bool    `json:"isVerified" firestore:"isVerified" bson:"isVerified"`
	IsActive     bool    `json:"isActive" firestore:"isActive" bson:"isActive"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the public view of a user embedded in other resources.
type UserSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	Role         string  `json:"role"`
	Rating       float64 `json:"rating"`
	TotalRatings int     `json:"totalRatings"`
	IsVerified   bool    `json:"isVerified"`
	ProfileImage string  `json:"profileImage,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		Rating:       u.Rating,
		TotalRatings: u.TotalRatings,
		IsVerified:   u.IsVerified,
		ProfileImage: u.ProfileImage,
	}
}

// ApplyRating folds one more rating into the running average.
func (u *User) ApplyRating(r int) {
	u.Rating = RunningAverage(u.Rating, u.TotalRatings, r)
	u.TotalRatings++
}

func RunningAverage(current float64, count int, next int) float64 {
	return (current*float64(count) + float64(next)) / float64(count+1)
}
