package repository

import (
	"sort"
	"strings"

	"agrirent/internal/domain/entity"
	"agrirent/internal/domain/repository"
)

// matchLand applies the catalog filter to a single land. It is used by the backends
// that cannot express the whole filter in their query language.
func matchLand(l *entity.Land, f repository.LandFilter) bool {
	if !l.IsListed() {
		return false
	}
	if f.IDs != nil && !containsString(f.IDs, l.ID) {
		return false
	}
	if f.MinPrice > 0 && l.PricePerAcre < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && l.PricePerAcre > f.MaxPrice {
		return false
	}
	if f.MinAcres > 0 && l.AvailableAcres < f.MinAcres {
		return false
	}
	if f.MaxAcres > 0 && l.AvailableAcres > f.MaxAcres {
		return false
	}
	if f.SoilType != "" && l.SoilType != f.SoilType {
		return false
	}
	if f.WaterSource != "" && l.WaterSource != f.WaterSource {
		return false
	}
	if f.IrrigationType != "" && l.IrrigationType != f.IrrigationType {
		return false
	}
	if !containsFold(l.Address.State, f.State) ||
		!containsFold(l.Address.City, f.City) ||
		!containsFold(l.Address.District, f.District) ||
		!containsFold(l.Address.Village, f.Village) {
		return false
	}
	if f.Search != "" && !matchesSearch(l, f.Search) {
		return false
	}
	if f.Near != nil {
		if !l.Location.Valid() {
			return false
		}
		if entity.DistanceKm(f.Near.Lat, f.Near.Lng, l.Location.Lat(), l.Location.Lng()) > f.Near.RadiusKm {
			return false
		}
	}
	return true
}

// matchesSearch is true when any search term occurs in the descriptive fields.
func matchesSearch(l *entity.Land, search string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		l.Title, l.Description, l.Address.Village, l.Address.City, l.Address.District,
	}, " "))
	for _, term := range strings.Fields(strings.ToLower(search)) {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func sortLands(lands []*entity.Land, s repository.LandSort) {
	key := func(l *entity.Land) float64 {
		switch s.Field {
		case repository.LandSortPrice:
			return l.PricePerAcre
		case repository.LandSortAcres:
			return l.AvailableAcres
		case repository.LandSortRating:
			return l.Rating
		default:
			return float64(l.CreatedAt.UnixNano())
		}
	}
	sort.SliceStable(lands, func(i, j int) bool {
		if s.Desc {
			return key(lands[i]) > key(lands[j])
		}
		return key(lands[i]) < key(lands[j])
	})
}

func matchUser(u *entity.User, f repository.UserFilter) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.OnlyActive && !u.IsActive {
		return false
	}
	if f.MinExperience > 0 && u.FarmingExperience < f.MinExperience {
		return false
	}
	if !containsFold(u.Address.State, f.State) || !containsFold(u.Address.City, f.City) {
		return false
	}
	if f.Search != "" {
		s := f.Search
		if !containsFold(u.Name, s) && !containsFold(u.Address.City, s) && !containsFold(u.Address.State, s) {
			return false
		}
	}
	return true
}

func sortUsersByRating(users []*entity.User) {
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Rating > users[j].Rating
	})
}

func sortChatsByActivity(chats []*entity.Chat) {
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastActivity().After(chats[j].LastActivity())
	})
}

func sortRentalsNewestFirst(rentals []*entity.Rental) {
	sort.SliceStable(rentals, func(i, j int) bool {
		return rentals[i].CreatedAt.After(rentals[j].CreatedAt)
	})
}

// page returns the [offset, offset+limit) window. A limit of 0 means no limit.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsFold(value, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
