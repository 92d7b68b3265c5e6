package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"agrirent/internal/adapter/api/middleware"
	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
	"agrirent/internal/usecase"
	"agrirent/pkg/errors"
	"agrirent/pkg/response"
	"agrirent/pkg/utils"
)

type LandHandler struct {
	landUseCase *usecase.LandUseCase
}

func NewLandHandler(landUseCase *usecase.LandUseCase) *LandHandler {
	return &LandHandler{
		landUseCase: landUseCase,
	}
}

// locationRequest carries GeoJSON order: [longitude, latitude].
type locationRequest struct {
	Coordinates []float64 `json:"coordinates" validate:"len=2"`
}

type landRequest struct {
	Title             string                 `json:"title" validate:"required,min=5,max=100"`
	Description       string                 `json:"description" validate:"required,min=20,max=1000"`
	TotalAcres        float64                `json:"totalAcres" validate:"required,gte=0.1,lte=10000"`
	AvailableAcres    float64                `json:"availableAcres" validate:"required,gte=0.1"`
	PricePerAcre      float64                `json:"pricePerAcre" validate:"required,gte=100,lte=100000"`
	Location          *locationRequest       `json:"location" validate:"required"`
	Address           entity.Address         `json:"address"`
	SoilType          string                 `json:"soilType" validate:"required,oneof=alluvial black red laterite mountain desert other"`
	WaterSource       string                 `json:"waterSource" validate:"required,oneof=well borewell canal river lake rainfed other"`
	IrrigationType    string                 `json:"irrigationType" validate:"omitempty,oneof=drip sprinkler flood manual none"`
	Images            []entity.LandImage     `json:"images"`
	LandDocuments     []entity.Document      `json:"landDocuments"`
	RentalTerms       entity.LandRentalTerms `json:"rentalTerms"`
	Restrictions      []string               `json:"restrictions"`
	PreferredCrops    []string               `json:"preferredCrops"`
	ContactPreference string                 `json:"contactPreference" validate:"omitempty,oneof=phone email both"`
	AvailableFrom     string                 `json:"availableFrom"`
	AvailableTo       string                 `json:"availableTo"`
}

type updateLandRequest struct {
	Title             string                 `json:"title" validate:"omitempty,min=5,max=100"`
	Description       string                 `json:"description" validate:"omitempty,min=20,max=1000"`
	TotalAcres        float64                `json:"totalAcres" validate:"omitempty,gte=0.1,lte=10000"`
	AvailableAcres    float64                `json:"availableAcres" validate:"omitempty,gte=0.1"`
	PricePerAcre      float64                `json:"pricePerAcre" validate:"omitempty,gte=100,lte=100000"`
	Location          *locationRequest       `json:"location"`
	Address           entity.Address         `json:"address"`
	SoilType          string                 `json:"soilType" validate:"omitempty,oneof=alluvial black red laterite mountain desert other"`
	WaterSource       string                 `json:"waterSource" validate:"omitempty,oneof=well borewell canal river lake rainfed other"`
	IrrigationType    string                 `json:"irrigationType" validate:"omitempty,oneof=drip sprinkler flood manual none"`
	LandStatus        string                 `json:"landStatus" validate:"omitempty,oneof=available rented underNegotiation maintenance"`
	Images            []entity.LandImage     `json:"images"`
	LandDocuments     []entity.Document      `json:"landDocuments"`
	RentalTerms       entity.LandRentalTerms `json:"rentalTerms"`
	Restrictions      []string               `json:"restrictions"`
	PreferredCrops    []string               `json:"preferredCrops"`
	ContactPreference string                 `json:"contactPreference" validate:"omitempty,oneof=phone email both"`
	AvailableFrom     string                 `json:"availableFrom"`
	AvailableTo       string                 `json:"availableTo"`
	IsActive          *bool                  `json:"isActive"`
}

type inquireRequest struct {
	Message string `json:"message" validate:"required,min=10,max=500"`
}

func (r *locationRequest) latLng() (*float64, *float64) {
	if r == nil || len(r.Coordinates) != 2 {
		return nil, nil
	}
	lng, lat := r.Coordinates[0], r.Coordinates[1]
	return &lat, &lng
}

func (r *landRequest) toInput() (usecase.LandInput, error) {
	lat, lng := r.Location.latLng()
	if lat == nil || *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return usecase.LandInput{}, errors.Validation("Validation failed", errors.FieldError{
			Field: "location", Message: "location must be [longitude, latitude] within valid ranges",
		})
	}
	from, err := parseOptionalDate("availableFrom", r.AvailableFrom)
	if err != nil {
		return usecase.LandInput{}, err
	}
	to, err := parseOptionalDate("availableTo", r.AvailableTo)
	if err != nil {
		return usecase.LandInput{}, err
	}

	return usecase.LandInput{
		Title:             r.Title,
		Description:       r.Description,
		TotalAcres:        r.TotalAcres,
		AvailableAcres:    r.AvailableAcres,
		PricePerAcre:      r.PricePerAcre,
		Latitude:          lat,
		Longitude:         lng,
		Address:           r.Address,
		SoilType:          r.SoilType,
		WaterSource:       r.WaterSource,
		IrrigationType:    r.IrrigationType,
		Images:            r.Images,
		LandDocuments:     r.LandDocuments,
		RentalTerms:       r.RentalTerms,
		Restrictions:      r.Restrictions,
		PreferredCrops:    r.PreferredCrops,
		ContactPreference: r.ContactPreference,
		AvailableFrom:     from,
		AvailableTo:       to,
	}, nil
}

func (r *updateLandRequest) toInput() (usecase.LandInput, error) {
	lat, lng := r.Location.latLng()
	from, err := parseOptionalDate("availableFrom", r.AvailableFrom)
	if err != nil {
		return usecase.LandInput{}, err
	}
	to, err := parseOptionalDate("availableTo", r.AvailableTo)
	if err != nil {
		return usecase.LandInput{}, err
	}

	return usecase.LandInput{
		Title:             r.Title,
		Description:       r.Description,
		TotalAcres:        r.TotalAcres,
		AvailableAcres:    r.AvailableAcres,
		PricePerAcre:      r.PricePerAcre,
		Latitude:          lat,
		Longitude:         lng,
		Address:           r.Address,
		SoilType:          r.SoilType,
		WaterSource:       r.WaterSource,
		IrrigationType:    r.IrrigationType,
		LandStatus:        r.LandStatus,
		Images:            r.Images,
		LandDocuments:     r.LandDocuments,
		RentalTerms:       r.RentalTerms,
		Restrictions:      r.Restrictions,
		PreferredCrops:    r.PreferredCrops,
		ContactPreference: r.ContactPreference,
		AvailableFrom:     from,
		AvailableTo:       to,
		IsActive:          r.IsActive,
	}, nil
}

func (h *LandHandler) Create(c echo.Context) error {
	var req landRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	input, err := req.toInput()
	if err != nil {
		return response.Error(c, err)
	}

	land, err := h.landUseCase.Create(c.Request().Context(), middleware.CurrentUser(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, "Land listing created successfully", map[string]interface{}{"land": land})
}

func (h *LandHandler) List(c echo.Context) error {
	input, err := parseLandQuery(c)
	if err != nil {
		return response.Error(c, err)
	}

	lands, total, err := h.landUseCase.List(c.Request().Context(), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, "lands", lands, total, input.Page, input.Limit)
}

func (h *LandHandler) ListMine(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	lands, total, err := h.landUseCase.ListMine(c.Request().Context(), middleware.CurrentUserID(c), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, "lands", lands, total, pagination.Page, pagination.PageSize)
}

// Get is public. Authenticated viewers other than the owner count as a view.
func (h *LandHandler) Get(c echo.Context) error {
	land, err := h.landUseCase.Get(c.Request().Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"land": land})
}

func (h *LandHandler) Update(c echo.Context) error {
	var req updateLandRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	input, err := req.toInput()
	if err != nil {
		return response.Error(c, err)
	}

	land, err := h.landUseCase.Update(c.Request().Context(), middleware.CurrentUserID(c), c.Param("id"), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Land listing updated successfully", map[string]interface{}{"land": land})
}

func (h *LandHandler) Delete(c echo.Context) error {
	if err := h.landUseCase.Delete(c.Request().Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Land listing deleted successfully", nil)
}

func (h *LandHandler) Inquire(c echo.Context) error {
	var req inquireRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.landUseCase.Inquire(c.Request().Context(), middleware.CurrentUserID(c), c.Param("id"), req.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Inquiry sent successfully", map[string]interface{}{"chat": chat})
}

func (h *LandHandler) Rate(c echo.Context) error {
	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	land, err := h.landUseCase.Rate(c.Request().Context(), middleware.CurrentUserID(c), c.Param("id"), req.Rating)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Land rated successfully", map[string]interface{}{
		"rating":       land.Rating,
		"totalRatings": land.TotalRatings,
	})
}

// parseLandQuery reads the catalog filter, sort and page from the query string.
func parseLandQuery(c echo.Context) (usecase.ListLandsInput, error) {
	var q struct {
		MinPrice       float64 `query:"minPrice"`
		MaxPrice       float64 `query:"maxPrice"`
		MinAcres       float64 `query:"minAcres"`
		MaxAcres       float64 `query:"maxAcres"`
		SoilType       string  `query:"soilType"`
		WaterSource    string  `query:"waterSource"`
		IrrigationType string  `query:"irrigationType"`
		State          string  `query:"state"`
		City           string  `query:"city"`
		District       string  `query:"district"`
		Village        string  `query:"village"`
		Search         string  `query:"search"`
		SortBy         string  `query:"sortBy"`
		SortOrder      string  `query:"sortOrder"`
	}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return usecase.ListLandsInput{}, errors.BadRequest("Invalid query parameters", err)
	}

	sort := repository.LandSort{Field: repository.LandSortCreatedAt, Desc: true}
	switch q.SortBy {
	case "", repository.LandSortCreatedAt:
	case repository.LandSortPrice, repository.LandSortAcres, repository.LandSortRating:
		sort.Field = q.SortBy
	default:
		return usecase.ListLandsInput{}, errors.Validation("Validation failed", errors.FieldError{
			Field: "sortBy", Message: "sortBy must be one of: price acres createdAt rating",
		})
	}
	switch strings.ToLower(q.SortOrder) {
	case "", "desc":
	case "asc":
		sort.Desc = false
	default:
		return usecase.ListLandsInput{}, errors.Validation("Validation failed", errors.FieldError{
			Field: "sortOrder", Message: "sortOrder must be one of: asc desc",
		})
	}

	filter := repository.LandFilter{
		MinPrice:       q.MinPrice,
		MaxPrice:       q.MaxPrice,
		MinAcres:       q.MinAcres,
		MaxAcres:       q.MaxAcres,
		SoilType:       q.SoilType,
		WaterSource:    q.WaterSource,
		IrrigationType: q.IrrigationType,
		State:          q.State,
		City:           q.City,
		District:       q.District,
		Village:        q.Village,
		Search:         q.Search,
	}

	near, err := parseNear(c)
	if err != nil {
		return usecase.ListLandsInput{}, err
	}
	filter.Near = near

	pagination := utils.GetPaginationParams(c)
	return usecase.ListLandsInput{
		Filter: filter,
		Sort:   sort,
		Page:   pagination.Page,
		Limit:  pagination.PageSize,
	}, nil
}

// parseNear builds a radius query when latitude, longitude and radius are all given.
func parseNear(c echo.Context) (*repository.GeoQuery, error) {
	latRaw, lngRaw, radiusRaw := c.QueryParam("latitude"), c.QueryParam("longitude"), c.QueryParam("radius")
	if latRaw == "" || lngRaw == "" || radiusRaw == "" {
		return nil, nil
	}

	invalid := errors.Validation("Validation failed", errors.FieldError{
		Field: "location", Message: "latitude, longitude and radius must be valid numbers",
	})
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, invalid
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, invalid
	}
	radius, err := strconv.ParseFloat(radiusRaw, 64)
	if err != nil || radius <= 0 {
		return nil, invalid
	}
	return &repository.GeoQuery{Lat: lat, Lng: lng, RadiusKm: radius}, nil
}
