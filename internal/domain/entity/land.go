package entity

import (
	"time"
)

const (
	LandStatusAvailable        = "available"
	LandStatusRented           = "rented"
	LandStatusUnderNegotiation = "underNegotiation"
	LandStatusMaintenance      = "maintenance"
)

var (
	SoilTypes       = []string{"alluvial", "black", "red", "laterite", "mountain", "desert", "other"}
	WaterSources    = []string{"well", "borewell", "canal", "river", "lake", "rainfed", "other"}
	IrrigationTypes = []string{"drip", "sprinkler", "flood", "manual", "none"}
)

type LandImage struct {
	URL        string    `json:"url" firestore:"url" bson:"url"`
	Caption    string    `json:"caption,omitempty" firestore:"caption" bson:"caption"`
	UploadedAt time.Time `json:"uploadedAt" firestore:"uploadedAt" bson:"uploadedAt"`
}

type LandRentalTerms struct {
	MinimumDuration int     `json:"minimumDuration" firestore:"minimumDuration" bson:"minimumDuration"`
	MaximumDuration int     `json:"maximumDuration" firestore:"maximumDuration" bson:"maximumDuration"`
	PaymentSchedule string  `json:"paymentSchedule" firestore:"paymentSchedule" bson:"paymentSchedule"`
	SecurityDeposit float64 `json:"securityDeposit" firestore:"securityDeposit" bson:"securityDeposit"`
}

type Land struct {
	ID          string `json:"id" firestore:"id" bson:"_id"`
	OwnerID     string `json:"owner" firestore:"owner" bson:"owner"`
	Title       string `json:"title" firestore:"title" bson:"title"`
	Description string `json:"description" firestore:"description" bson:"description"`

	TotalAcres     float64 `json:"totalAcres" firestore:"totalAcres" bson:"totalAcres"`
	AvailableAcres float64 `json:"availableAcres" firestore:"availableAcres" bson:"availableAcres"`
	PricePerAcre   float64 `json:"pricePerAcre" firestore:"pricePerAcre" bson:"pricePerAcre"`

	Location GeoPoint `json:"location" firestore:"location" bson:"location"`
	Address  Address  `json:"address" firestore:"address" bson:"address"`

	SoilType       string `json:"soilType" firestore:"soilType" bson:"soilType"`
	WaterSource    string `json:"waterSource" firestore:"waterSource" bson:"waterSource"`
	IrrigationType string `json:"irrigationType" firestore:"irrigationType" bson:"irrigationType"`
	LandStatus     string `json:"landStatus" firestore:"landStatus" bson:"landStatus"`

	LandDocuments []Document      `json:"landDocuments,omitempty" firestore:"landDocuments" bson:"landDocuments"`
	IsVerified    bool            `json:"isVerified" firestore:"isVerified" bson:"isVerified"`
	Images        []LandImage     `json:"images,omitempty" firestore:"images" bson:"images"`
	RentalTerms   LandRentalTerms `json:"rentalTerms" firestore:"rentalTerms" bson:"rentalTerms"`

	Restrictions      []string   `json:"restrictions,omitempty" firestore:"restrictions" bson:"restrictions"`
	PreferredCrops    []string   `json:"preferredCrops,omitempty" firestore:"preferredCrops" bson:"preferredCrops"`
	ContactPreference string     `json:"contactPreference" firestore:"contactPreference" bson:"contactPreference"`
	AvailableFrom     time.Time  `json:"availableFrom" firestore:"availableFrom" bson:"availableFrom"`
	AvailableTo       *time.Time `json:"availableTo,omitempty" firestore:"availableTo,omitempty" bson:"availableTo,omitempty"`

	Views        int     `json:"views" firestore:"views" bson:"views"`
	Inquiries    int     `json:"inquiries" firestore:"inquiries" bson:"inquiries"`
	Rating       float64 `json:"rating" firestore:"rating" bson:"rating"`
	TotalRatings int     `json:"totalRatings" firestore:"totalRatings" bson:"totalRatings"`
	IsActive     bool    `json:"isActive" firestore:"isActive" bson:"isActive"`
	IsFeatured   bool    `json:"isFeatured" firestore:"isFeatured" bson:"isFeatured"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`

	// derived, never persisted
	TotalPrice float64 `json:"totalPrice" firestore:"-" bson:"-"`
}

// Refresh recomputes derived fields before the land is returned to a caller.
func (l *Land) Refresh() *Land {
	l.TotalPrice = l.AvailableAcres * l.PricePerAcre
	return l
}

// IsListed reports whether the land is visible in the public catalog.
func (l *Land) IsListed() bool {
	return l.IsActive && l.LandStatus == LandStatusAvailable
}

func (l *Land) ApplyRating(r int) {
	l.Rating = RunningAverage(l.Rating, l.TotalRatings, r)
	l.TotalRatings++
}
