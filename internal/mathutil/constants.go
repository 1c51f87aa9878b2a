package mathutil

// ZeroTolerance is the length below which vectors are treated as degenerate.
const ZeroTolerance = 1e-12

// Precomputed preview camera orientations.
var (
	// IsoView looks at the model from an isometric-like angle: Rx(-30°) @ Ry(35°).
	IsoView = Mat3Mul(RotX(Deg2Rad(-30)), RotY(Deg2Rad(35)))

	// TopView looks straight down the Z axis (Z-up models, XY plane facing the camera).
	TopView = Mat3Identity()

	// FrontView maps Z-up to Y-up: Rx(-90°).
	FrontView = RotX(Deg2Rad(-90))
)
