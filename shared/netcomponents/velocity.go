package netcomponents

import (
	"math"

	"github.com/yohamta/donburi"
)

// NetVelocityData is a per-tick displacement.
type NetVelocityData struct {
	VX, VY float64
}

var NetVelocity = donburi.NewComponentType[NetVelocityData]()

// Speed returns the distance covered in one tick.
func (v *NetVelocityData) Speed() float64 {
	return math.Hypot(v.VX, v.VY)
}

// LerpNetVelocity interpolates between two velocities
func LerpNetVelocity(from, to NetVelocityData, t float64) *NetVelocityData {
	return &NetVelocityData{
		VX: from.VX + (to.VX-from.VX)*t,
		VY: from.VY + (to.VY-from.VY)*t,
	}
}
