package request

import "room-booking/internal/usecase/commands"

type CreateRoomRequest struct {
	Name     string   `json:"name" binding:"required,max=255"`
	Capacity int      `json:"capacity" binding:"required,gt=0"`
	Features []string `json:"features"`
}

func (r CreateRoomRequest) ToInput() commands.CreateRoomInput {
	return commands.CreateRoomInput{
		Name:     r.Name,
		Capacity: r.Capacity,
		Features: r.Features,
	}
}

type ListRoomsQuery struct {
	Feature     string `form:"feature"`
	MinCapacity int    `form:"min_capacity" binding:"gte=0"`
}
