package common

const (
	// Gravity is in world units (metres) per second squared, +Y is down.
	Gravity = 9.81

	TPS     = 60
	FrameDt = 1.0 / TPS

	// PixelsPerUnit converts world units to screen pixels at zoom 1.
	PixelsPerUnit = 100.0
)
