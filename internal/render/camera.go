// Package render draws chunk meshes with OpenGL 4.1 core.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Target   mgl32.Vec3
	Yaw      float32 // radians around +Y
	Pitch    float32 // radians above the horizon
	Distance float32
}

const maxPitch = math.Pi/2 - 0.01

func NewCamera(width, height int, target mgl32.Vec3, distance float32) *Camera {
	return &Camera{
		AspectRatio: float32(width) / float32(height),
		FOV:         60.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
		Target:      target,
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 6,
		Distance:    distance,
	}
}

// Position returns the eye position.
func (c *Camera) Position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	dir := mgl32.Vec3{
		cp * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cp * float32(math.Cos(float64(c.Yaw))),
	}
	return c.Target.Add(dir.Mul(c.Distance))
}

// Orbit turns the camera by the given angles, keeping the pitch off the poles.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Zoom scales the distance to the target.
func (c *Camera) Zoom(factor float32) {
	c.Distance = mgl32.Clamp(c.Distance*factor, 1, c.FarPlane/2)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Ray returns the eye position and the view direction through the center of
// the screen.
func (c *Camera) Ray() (origin, dir mgl32.Vec3) {
	origin = c.Position()
	return origin, c.Target.Sub(origin).Normalize()
}
