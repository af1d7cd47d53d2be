package gamemath

import "math"

// Distance returns the euclidean distance between two points.
func Distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}

// Normalize returns the unit vector of (x, y). ok is false for the zero vector.
func Normalize(x, y float64) (nx, ny float64, ok bool) {
	mag := math.Hypot(x, y)
	if mag == 0 || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return 0, 0, false
	}
	return x / mag, y / mag, true
}

// CalculateHomingVelocity returns velocity components to home toward a target.
func CalculateHomingVelocity(fromX, fromY, targetX, targetY, speed float64) (velX, velY float64) {
	dirX := targetX - fromX
	dirY := targetY - fromY
	dist := math.Sqrt(dirX*dirX + dirY*dirY)
	if dist > 0 {
		velX = (dirX / dist) * speed
		velY = (dirY / dist) * speed
	}
	return velX, velY
}

// CalculateShotVelocity rescales an aim vector to the given speed.
func CalculateShotVelocity(aimX, aimY, speed float64) (velX, velY float64, ok bool) {
	nx, ny, ok := Normalize(aimX, aimY)
	if !ok {
		return 0, 0, false
	}
	return nx * speed, ny * speed, true
}
