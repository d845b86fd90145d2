package physics

import (
	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

const rayEpsilon = 1e-6

// defaultColliderFriction is used when a descriptor leaves Friction at zero.
const defaultColliderFriction = 1

// PlaneDescriptor describes a static infinite plane. Everything behind the plane is solid.
type PlaneDescriptor struct {
	Point       mgl32.Vec3
	Normal      mgl32.Vec3
	Restitution float32
	// Friction multiplies the body friction on contact. Zero means 1.
	Friction float32
}

// BoxDescriptor describes a static box, optionally rotated about its center.
type BoxDescriptor struct {
	Center mgl32.Vec3
	// Size is the full edge length along each local axis.
	Size mgl32.Vec3
	// Rotation is an Euler rotation in radians (x = pitch, y = yaw, z = roll).
	Rotation    mgl32.Vec3
	Restitution float32
	// Friction multiplies the body friction on contact. Zero means 1.
	Friction float32
}

// contact is a penetration of a sphere into a collider.
type contact struct {
	normal      mgl32.Vec3
	depth       float32
	restitution float32
	friction    float32
}

type collider interface {
	raycast(from, to mgl32.Vec3) (RaycastResult, bool)
	contact(center mgl32.Vec3, radius float32) (contact, bool)
}

type planeCollider struct {
	point       mgl32.Vec3
	normal      mgl32.Vec3
	restitution float32
	friction    float32
}

func newPlaneCollider(desc PlaneDescriptor) *planeCollider {
	n := common.SafeNormalize(desc.Normal)
	if n.Len() == 0 {
		n = common.WorldUp
	}
	return &planeCollider{
		point:       desc.Point,
		normal:      n,
		restitution: desc.Restitution,
		friction:    common.Coalesce(desc.Friction, defaultColliderFriction),
	}
}

func (p *planeCollider) raycast(from, to mgl32.Vec3) (RaycastResult, bool) {
	dir := to.Sub(from)
	denom := dir.Dot(p.normal)
	if math32.Abs(denom) < rayEpsilon {
		return RaycastResult{}, false
	}
	t := p.point.Sub(from).Dot(p.normal) / denom
	if t < 0 || t > 1 {
		return RaycastResult{}, false
	}
	normal := p.normal
	if denom > 0 {
		normal = normal.Mul(-1)
	}
	return RaycastResult{
		Hit:      true,
		Distance: dir.Len() * t,
		Normal:   normal,
		Point:    from.Add(dir.Mul(t)),
	}, true
}

func (p *planeCollider) contact(center mgl32.Vec3, radius float32) (contact, bool) {
	d := center.Sub(p.point).Dot(p.normal)
	if d >= radius {
		return contact{}, false
	}
	return contact{
		normal:      p.normal,
		depth:       radius - d,
		restitution: p.restitution,
		friction:    p.friction,
	}, true
}

// boxCollider keeps the box in its own local frame, centered at the origin. World-space queries
// are rotated into that frame and traced with float32-cube.
type boxCollider struct {
	center      mgl32.Vec3
	rotation    mgl32.Quat
	inverse     mgl32.Quat
	local       cube.BBox
	restitution float32
	friction    float32
}

func newBoxCollider(desc BoxDescriptor) *boxCollider {
	half := desc.Size.Mul(0.5)
	rot := mgl32.Mat4ToQuat(common.EulerRotation(desc.Rotation.X(), desc.Rotation.Y(), desc.Rotation.Z())).Normalize()
	return &boxCollider{
		center:      desc.Center,
		rotation:    rot,
		inverse:     rot.Conjugate(),
		local:       cube.Box(-half.X(), -half.Y(), -half.Z(), half.X(), half.Y(), half.Z()),
		restitution: desc.Restitution,
		friction:    common.Coalesce(desc.Friction, defaultColliderFriction),
	}
}

func (b *boxCollider) toLocal(v mgl32.Vec3) mgl32.Vec3 {
	return b.inverse.Rotate(v.Sub(b.center))
}

func (b *boxCollider) toWorld(v mgl32.Vec3) mgl32.Vec3 {
	return b.rotation.Rotate(v).Add(b.center)
}

func (b *boxCollider) raycast(from, to mgl32.Vec3) (RaycastResult, bool) {
	res, ok := trace.BBoxIntercept(b.local, b.toLocal(from), b.toLocal(to))
	if !ok {
		return RaycastResult{}, false
	}
	point := b.toWorld(res.Position())
	return RaycastResult{
		Hit:      true,
		Distance: point.Sub(from).Len(),
		Normal:   b.rotation.Rotate(faceNormal(res.Face())),
		Point:    point,
	}, true
}

func (b *boxCollider) contact(center mgl32.Vec3, radius float32) (contact, bool) {
	local := b.toLocal(center)
	lo, hi := b.local.Min(), b.local.Max()
	closest := mgl32.Vec3{
		common.Clamp(local.X(), lo.X(), hi.X()),
		common.Clamp(local.Y(), lo.Y(), hi.Y()),
		common.Clamp(local.Z(), lo.Z(), hi.Z()),
	}

	diff := local.Sub(closest)
	dist := diff.Len()
	if dist >= radius {
		return contact{}, false
	}

	var normal mgl32.Vec3
	var depth float32
	if dist > rayEpsilon {
		normal = diff.Mul(1 / dist)
		depth = radius - dist
	} else {
		// Center inside the box: leave through the nearest face.
		normal, depth = b.nearestFace(local)
		depth += radius
	}
	return contact{
		normal:      b.rotation.Rotate(normal),
		depth:       depth,
		restitution: b.restitution,
		friction:    b.friction,
	}, true
}

func (b *boxCollider) nearestFace(local mgl32.Vec3) (mgl32.Vec3, float32) {
	lo, hi := b.local.Min(), b.local.Max()
	best := hi.Y() - local.Y()
	normal := faceNormal(cube.FaceUp)
	candidates := []struct {
		face cube.Face
		dist float32
	}{
		{cube.FaceDown, local.Y() - lo.Y()},
		{cube.FaceEast, hi.X() - local.X()},
		{cube.FaceWest, local.X() - lo.X()},
		{cube.FaceSouth, hi.Z() - local.Z()},
		{cube.FaceNorth, local.Z() - lo.Z()},
	}
	for _, c := range candidates {
		if c.dist < best {
			best = c.dist
			normal = faceNormal(c.face)
		}
	}
	return normal, best
}

func faceNormal(face cube.Face) mgl32.Vec3 {
	switch face {
	case cube.FaceDown:
		return mgl32.Vec3{0, -1, 0}
	case cube.FaceUp:
		return mgl32.Vec3{0, 1, 0}
	case cube.FaceNorth:
		return mgl32.Vec3{0, 0, -1}
	case cube.FaceSouth:
		return mgl32.Vec3{0, 0, 1}
	case cube.FaceWest:
		return mgl32.Vec3{-1, 0, 0}
	default:
		return mgl32.Vec3{1, 0, 0}
	}
}
