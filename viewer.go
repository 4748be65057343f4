package gridview

import (
	"image/color"

	"github.com/akmonengine/gridview/camera"
	"github.com/akmonengine/gridview/geometry"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// ViewerSettings holds the camera, movement and scene settings of a Viewer
type ViewerSettings struct {
	// Vertical field of view, in degrees
	FOV  float64
	Near float64
	Far  float64

	// Movement speeds, in units per second
	MoveSpeed     float64
	FastMoveSpeed float64
	// Mouse look speed, in degrees per pixel per second
	LookSensitivity float64

	Box  geometry.AABB
	Grid GridSettings

	PreviewColor color.Color
	ClearColor   color.Color
}

func DefaultViewerSettings() ViewerSettings {
	return ViewerSettings{
		FOV:             70,
		Near:            0.1,
		Far:             8192,
		MoveSpeed:       50,
		FastMoveSpeed:   100,
		LookSensitivity: 10,
		Box:             geometry.NewAABBFromPoints(mgl64.Vec3{-32, 0, -32}, mgl64.Vec3{32, 8, 32}),
		Grid:            DefaultGridSettings(128),
		PreviewColor:    color.NRGBA{R: 255, G: 255, B: 0, A: 255},
		ClearColor:      color.NRGBA{R: 32, G: 32, B: 32, A: 255},
	}
}

// Viewer is the viewport application state: a camera looking at a box over the grid.
// Update must be called before Draw on every frame, from a single goroutine.
type Viewer struct {
	Camera   *camera.Camera
	Grid     *Grid
	Picker   *Picker
	Viewport camera.Viewport
	Settings ViewerSettings

	Events Events

	pick          PickResult
	previews      []mgl64.Vec3
	previousMouse mgl64.Vec2
	hasMouse      bool

	logger *zap.Logger
}

// NewViewer creates a viewer with the camera behind and above the box, looking down at 45°
func NewViewer(settings ViewerSettings, viewport camera.Viewport, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := &Viewer{
		Grid:     NewGrid(settings.Grid),
		Picker:   NewPicker(settings.Box),
		Viewport: viewport,
		Settings: settings,
		Events:   NewEvents(),
		logger:   logger,
	}
	v.pick.Color = v.Picker.InactiveColor

	v.Camera = camera.NewPerspective(settings.FOV, viewport.AspectRatio(), settings.Near, settings.Far)
	v.Camera.SetPosition(settings.Box.Center().
		Add(camera.Backward.Mul(30)).
		Add(camera.Up.Mul(20)))
	v.Camera.RotateLocal(camera.Right, -45)

	return v
}

// Resize changes the viewport, rebuilding the projection for the new aspect ratio
func (v *Viewer) Resize(viewport camera.Viewport) {
	if viewport == v.Viewport {
		return
	}
	v.Viewport = viewport

	position := v.Camera.Position()
	orientation := v.Camera.Orientation()
	v.Camera = camera.NewPerspective(v.Settings.FOV, viewport.AspectRatio(), v.Settings.Near, v.Settings.Far)
	v.Camera.SetPosition(position)
	v.Camera.SetOrientation(orientation)

	v.logger.Debug("viewport resized", zap.Int("width", viewport.Width), zap.Int("height", viewport.Height))
}

// Pick returns the pick result of the last Update
func (v *Viewer) Pick() *PickResult {
	return &v.pick
}

// Previews returns the centers of the preview cubes of the last Update
func (v *Viewer) Previews() []mgl64.Vec3 {
	return v.previews
}

// Update advances the camera from the input, then casts the mouse ray
func (v *Viewer) Update(in Input) {
	v.look(in)
	v.move(in)
	v.resizeGrid(in)
	v.cast(in.Mouse)

	v.Events.recordPick(&v.pick)
	v.Events.flush()
}

func (v *Viewer) look(in Input) {
	if v.hasMouse && in.Mouse != v.previousMouse && in.IsButtonDown(MouseRight) {
		xDifference := v.previousMouse.X() - in.Mouse.X()
		yDifference := v.previousMouse.Y() - in.Mouse.Y()

		v.Camera.Rotate(camera.Up, xDifference*in.Dt*v.Settings.LookSensitivity)
		v.Camera.RotateLocal(camera.Right, yDifference*in.Dt*v.Settings.LookSensitivity)
	}

	v.previousMouse = in.Mouse
	v.hasMouse = true
}

func (v *Viewer) move(in Input) {
	var movement mgl64.Vec3
	if in.Down.Has(KeyForward) {
		movement[2] = -1
	} else if in.Down.Has(KeyBackward) {
		movement[2] = 1
	}

	if in.Down.Has(KeyLeft) {
		movement[0] = -1
	} else if in.Down.Has(KeyRight) {
		movement[0] = 1
	}

	if movement == (mgl64.Vec3{}) {
		return
	}

	speed := v.Settings.MoveSpeed
	if in.Down.Has(KeyFast) {
		speed = v.Settings.FastMoveSpeed
	}

	v.Camera.MoveLocal(movement.Mul(speed * in.Dt))
}

func (v *Viewer) resizeGrid(in Input) {
	previous := v.Grid.CellSize()
	if in.Pressed.Has(KeyGridIncrease) {
		v.Grid.IncreaseGridSize()
	}
	if in.Pressed.Has(KeyGridDecrease) {
		v.Grid.DecreaseGridSize()
	}

	if current := v.Grid.CellSize(); current != previous {
		v.logger.Debug("grid size changed", zap.Int("previous", previous), zap.Int("current", current))
		v.Events.emitGridSizeChanged(previous, current)
	}
}

func (v *Viewer) cast(mouse mgl64.Vec2) {
	ray, err := v.Camera.Ray(v.Viewport, mouse)
	if err != nil {
		// no usable ray this frame, keep the last pick
		v.logger.Debug("pick skipped", zap.Error(err))
		return
	}

	wasHit := v.pick.Hit
	v.Picker.Pick(ray, v.pick.Point, &v.pick)
	v.previews = v.Picker.PreviewCenters(&v.pick)

	if v.pick.Hit != wasHit {
		v.logger.Debug("pick target changed",
			zap.Bool("box", v.pick.Hit),
			zap.Int("cells", len(v.pick.Cells)))
	}
}

// Draw sends the grid, the preview cubes and the box to the renderer
func (v *Viewer) Draw(renderer Renderer) error {
	renderer.Begin(v.Camera.View(), v.Camera.Projection())

	v.Grid.Draw(renderer, v.Camera.Position())

	for _, center := range v.previews {
		renderer.DrawCube(center, v.Picker.PreviewCellSize, v.Settings.PreviewColor, Wireframe)
	}

	renderer.DrawAabb(v.Picker.Box.Min, v.Picker.Box.Max, v.pick.Color, Wireframe)

	return renderer.End()
}
