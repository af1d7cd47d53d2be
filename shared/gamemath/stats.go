package gamemath

import "time"

// CalculateFireCooldown returns the cooldown after applying level reductions,
// floored at minimum.
func CalculateFireCooldown(base, step time.Duration, level int, minimum time.Duration) time.Duration {
	cd := base - time.Duration(level)*step
	if cd < minimum {
		return minimum
	}
	return cd
}

// CalculateDamage returns projectile damage for a damage upgrade level.
func CalculateDamage(base, step, level int) int {
	return base + step*level
}

// CalculateRange returns the max travel distance for a range upgrade level.
func CalculateRange(base, step float64, level int) float64 {
	return base + step*float64(level)
}

// CalculateSpeed returns movement speed for a speed upgrade level.
func CalculateSpeed(base, step float64, level int) float64 {
	return base + step*float64(level)
}
