package domain

type RoomID string

// NumSeats is the fixed seat count of every room.
const NumSeats = 8
