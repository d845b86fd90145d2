package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Carrier is a transform node that cameras can be parented to. A character controller moves
// the carrier to its body each frame; the camera rides along at its local offset.
type Carrier interface {
	// Position returns the carrier's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the world position
	Position() mgl32.Vec3

	// SetPosition moves the carrier.
	//
	// Parameters:
	//   - position: the new world position
	SetPosition(position mgl32.Vec3)
}

type carrierImpl struct {
	mu       sync.Mutex
	position mgl32.Vec3
}

var _ Carrier = &carrierImpl{}

// NewCarrier creates a Carrier at the given world position.
//
// Parameters:
//   - position: the initial world position
//
// Returns:
//   - Carrier: the new carrier
func NewCarrier(position mgl32.Vec3) Carrier {
	return &carrierImpl{position: position}
}

func (c *carrierImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *carrierImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
}
