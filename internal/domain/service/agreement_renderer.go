package service

import "agrirent/internal/domain/entity"

type AgreementData struct {
	Rental    *entity.Rental
	Land      *entity.Land
	Landowner *entity.User
	Farmer    *entity.User
}

// AgreementRenderer turns a rental into a printable agreement document.
type AgreementRenderer interface {
	Render(data AgreementData) ([]byte, error)
	ContentType() string
}
