package character

import (
	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// GroundSample is the result of one frame's downward ground probe.
type GroundSample struct {
	Hit      bool
	Distance float32
	Normal   mgl32.Vec3
	// Tilt is the angle in radians between world up and Normal; 0 on a miss.
	Tilt float32
}

// Stable reports whether the sample counts as grounded-stable: a hit on a surface tilted strictly
// less than SlideThreshold.
//
// Returns:
//   - bool: true when the character may stand, use full friction and jump
func (g GroundSample) Stable() bool {
	return g.Hit && g.Tilt < SlideThreshold
}

// CanJumpFrom reports whether the ground is close enough to push off from.
//
// Returns:
//   - bool: true when grounded-stable and within NearContactDistance
func (g GroundSample) CanJumpFrom() bool {
	return g.Stable() && g.Distance < NearContactDistance
}

// probeGround casts straight down from origin and returns the sample together with the
// floor-alignment rotation. A miss yields a zero sample and the identity rotation.
func probeGround(world physics.World, origin mgl32.Vec3) (GroundSample, mgl32.Quat) {
	res := world.Raycast(origin, origin.Sub(common.WorldUp.Mul(ProbeDistance)))
	if !res.Hit {
		return GroundSample{}, mgl32.QuatIdent()
	}
	align, tilt := common.SurfaceAlignment(res.Normal, MinSlopeTilt)
	return GroundSample{
		Hit:      true,
		Distance: res.Distance,
		Normal:   res.Normal,
		Tilt:     tilt,
	}, align
}
