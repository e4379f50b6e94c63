package place

import "github.com/google/uuid"

func NewFromCreateRequest(req CreatePlaceRequest, loc Location, image, creator string) Place {
	return Place{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Location:    loc,
		Image:       image,
		Creator:     creator,
	}
}
