// trophy is a terminal mesh viewer over the rasterizer core: it loads an
// OBJ or GLTF/GLB model, spins it in response to mouse drag and keyboard
// torque, and presents it through the character-cell backend.
//
// Controls:
//
//	Mouse drag  - Spin the model
//	Scroll      - Zoom in/out
//	W/S/A/D     - Pitch and yaw torque
//	Q/E         - Roll torque
//	Space       - Random impulse
//	R           - Reset pose and zoom
//	T           - Toggle texture
//	M           - Cycle render mode (solid/wireframe/vertex/normal)
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit (or cancel light mode)
package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/rasterkit/pkg/math3d"
	"github.com/taigrr/rasterkit/pkg/models"
	"github.com/taigrr/rasterkit/pkg/render"
	"github.com/taigrr/rasterkit/pkg/scene"
)

type flags struct {
	texturePath string
	fps         int
	bg          string
	wfov        float64
	hfov        float64
	nearplane   float64
}

func main() {
	var f flags
	cmd := &cobra.Command{
		Use:   "trophy <model.obj|model.glb>",
		Short: "View a 3D mesh in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			return runViewer(cmd.Context(), logger, args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.texturePath, "texture", "", "path to an explicit texture image (PNG/JPG/BMP)")
	cmd.Flags().IntVar(&f.fps, "fps", 60, "target frames per second")
	cmd.Flags().StringVar(&f.bg, "bg", "30,30,40", "background color as R,G,B")
	cmd.Flags().Float64Var(&f.wfov, "wfov", 60, "horizontal field of view, in degrees")
	cmd.Flags().Float64Var(&f.hfov, "hfov", 60, "vertical field of view, in degrees")
	cmd.Flags().Float64Var(&f.nearplane, "nearplane", 0.1, "near clip distance")

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

// axisState holds one rotation axis's per-frame angular velocity, decayed
// toward zero by a critically damped spring between impulses.
type axisState struct {
	velocity float64
	accel    float64
	spring   harmonica.Spring
}

func newAxisState(fps int) axisState {
	return axisState{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *axisState) decay() {
	a.velocity, a.accel = a.spring.Update(a.velocity, a.accel, 0)
}

// renderMode cycles through the traversal operations a mesh can be drawn
// with.
type renderMode int

const (
	modeSolid renderMode = iota
	modeWireframe
	modeVertex
	modeNormal
)

func (m renderMode) String() string {
	switch m {
	case modeWireframe:
		return "wireframe"
	case modeVertex:
		return "vertex"
	case modeNormal:
		return "normal"
	default:
		return "solid"
	}
}

func runViewer(ctx context.Context, logger *slog.Logger, modelPath string, f flags) error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(f.bg, "%d,%d,%d", &bgR, &bgG, &bgB)
	background := render.RGB(bgR, bgG, bgB)

	term := uv.DefaultTerminal()
	termWidth, termHeight, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(termWidth, termHeight)
	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h")

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	backend := render.NewCharCellBackend(term)
	fbWidth, fbHeight := termWidth/2, termHeight
	if err := backend.Init(fbWidth, fbHeight, background); err != nil {
		cleanup()
		return fmt.Errorf("init backend: %w", err)
	}

	cam := render.NewCamera(fbWidth, fbHeight, f.wfov, f.hfov, f.nearplane)
	cam.TranslateLocal(0, -5, 0)
	cameraDistance := 5.0

	lightDir := math3d.V3(0.5, 1, 0.3).Normalize()
	sc := scene.New(cam, backend.Framebuffer(), lightDir)

	mesh, texture, err := loadMesh(logger, modelPath, f.texturePath)
	if err != nil {
		cleanup()
		return err
	}
	if texture != nil {
		mesh.Texture = texture
	}
	normalizeMesh(mesh)

	mode := modeSolid
	textureEnabled := true
	showHUD := true
	lightMode := false
	pendingLight := lightDir
	savedLight := lightDir

	pitch, yaw, roll := newAxisState(f.fps), newAxisState(f.fps), newAxisState(f.fps)
	var torque struct{ pitch, yaw, roll float64 }
	const torqueStrength = 3.0

	reset := func() {
		pitch, yaw, roll = newAxisState(f.fps), newAxisState(f.fps), newAxisState(f.fps)
		cameraDistance = 5.0
		cam.Reset(math3d.Zero3())
		cam.TranslateLocal(0, -cameraDistance, 0)
	}

	var mouseDown bool
	var lastMouseX, lastMouseY int

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				termWidth, termHeight = ev.Width, ev.Height
				term.Erase()
				term.Resize(termWidth, termHeight)
				fbWidth, fbHeight = termWidth/2, termHeight
				if err := backend.Init(fbWidth, fbHeight, background); err == nil {
					cam.Width, cam.Height = fbWidth, fbHeight
					sc.Retarget(backend.Framebuffer())
				}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"):
					if lightMode {
						lightMode = false
						pendingLight = savedLight
						sc.SetLight(savedLight)
					} else {
						cancel()
						return
					}
				case ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					reset()
				case ev.MatchString("w", "up"):
					torque.pitch = -torqueStrength
				case ev.MatchString("s", "down"):
					torque.pitch = torqueStrength
				case ev.MatchString("a", "left"):
					torque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					torque.yaw = torqueStrength
				case ev.MatchString("q"):
					torque.roll = -torqueStrength
				case ev.MatchString("e"):
					torque.roll = torqueStrength
				case ev.MatchString("space"):
					pitch.velocity += (rand.Float64() - 0.5) * 0.3
					yaw.velocity += (rand.Float64() - 0.5) * 0.3
					roll.velocity += (rand.Float64() - 0.5) * 0.3
				case ev.MatchString("+", "="):
					cameraDistance = math.Max(1, cameraDistance-0.5)
					cam.Reset(math3d.Zero3())
					cam.TranslateLocal(0, -cameraDistance, 0)
				case ev.MatchString("-", "_"):
					cameraDistance = math.Min(20, cameraDistance+0.5)
					cam.Reset(math3d.Zero3())
					cam.TranslateLocal(0, -cameraDistance, 0)
				case ev.MatchString("t"):
					textureEnabled = !textureEnabled
				case ev.MatchString("m"):
					mode = (mode + 1) % 4
				case ev.MatchString("l"):
					lightMode = true
					savedLight = sc.Light
					pendingLight = sc.Light
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					showHUD = !showHUD
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					torque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					torque.yaw = 0
				case ev.MatchString("q"), ev.MatchString("e"):
					torque.roll = 0
				}

			case uv.MouseClickEvent:
				if lightMode {
					sc.SetLight(pendingLight)
					lightMode = false
				} else {
					mouseDown = true
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseReleaseEvent:
				if !lightMode {
					mouseDown = false
				}

			case uv.MouseMotionEvent:
				if lightMode {
					pendingLight = screenToLightDir(ev.X, ev.Y, termWidth, termHeight)
				} else if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					pitch.velocity += float64(dy) * 0.03
					yaw.velocity += float64(dx) * 0.03
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					cameraDistance = math.Max(1, cameraDistance-0.5)
				case uv.MouseWheelDown:
					cameraDistance = math.Min(20, cameraDistance+0.5)
				}
				cam.Reset(math3d.Zero3())
				cam.TranslateLocal(0, -cameraDistance, 0)
			}
		}
	}()

	targetDuration := time.Second / time.Duration(f.fps)
	lastFrame := time.Now()
	fpsFrames := 0
	fps := 0.0
	fpsTime := time.Now()

	for {
		select {
		case <-runCtx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		pitch.velocity += torque.pitch * dt
		yaw.velocity += torque.yaw * dt
		roll.velocity += torque.roll * dt
		torque.pitch *= 0.9
		torque.yaw *= 0.9
		torque.roll *= 0.9
		pitch.decay()
		yaw.decay()
		roll.decay()

		mesh.RotateAboutAxis(cam.I, pitch.velocity)
		mesh.RotateAboutAxis(cam.K, yaw.velocity)
		mesh.RotateAboutAxis(cam.J, roll.velocity)

		backend.Clear()
		if lightMode {
			sc.SetLight(pendingLight)
		}

		switch mode {
		case modeWireframe:
			sc.Proj.Wireframe(mesh, render.RGB(0, 255, 128))
		case modeVertex:
			sc.Proj.Vertex(mesh, render.ColorYellow)
		case modeNormal:
			sc.Proj.Normal(mesh, render.ColorCyan)
		default:
			if !textureEnabled {
				saved := mesh.Texture
				mesh.Texture = nil
				sc.Proj.DrawSolid(mesh)
				mesh.Texture = saved
			} else {
				sc.Proj.DrawSolid(mesh)
			}
		}

		if err := backend.Present(); err != nil {
			cleanup()
			return fmt.Errorf("present: %w", err)
		}

		fpsFrames++
		if elapsed := time.Since(fpsTime); elapsed >= time.Second {
			fps = float64(fpsFrames) / elapsed.Seconds()
			fpsFrames = 0
			fpsTime = time.Now()
		}
		renderHUD(termWidth, termHeight, filepath.Base(modelPath), mesh.FaceCount(), fps, mode, lightMode, showHUD)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// loadMesh dispatches on file extension and falls back to a checker
// texture when no texture was loaded from any source.
func loadMesh(logger *slog.Logger, modelPath, texturePath string) (*models.Mesh, *render.Texture, error) {
	var texture *render.Texture
	if texturePath != "" {
		t, err := render.LoadTexture(texturePath)
		if err != nil {
			logger.Warn("load texture", "path", texturePath, "error", err)
		} else {
			texture = t
		}
	}

	ext := strings.ToLower(filepath.Ext(modelPath))
	var mesh *models.Mesh
	var err error
	switch ext {
	case ".glb", ".gltf":
		var embedded image.Image
		mesh, embedded, err = models.LoadGLBWithTexture(modelPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load model %q: %w", modelPath, err)
		}
		if texture == nil && embedded != nil {
			texture = render.TextureFromImage(embedded)
		}
	case ".obj":
		mesh, err = models.LoadOBJ(modelPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load model %q: %w", modelPath, err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported model format %q (use .obj, .gltf, or .glb)", ext)
	}

	if texture == nil {
		texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}
	return mesh, texture, nil
}

// normalizeMesh centers mesh on its centroid and scales it so its farthest
// point sits at unit distance from the origin.
func normalizeMesh(mesh *models.Mesh) {
	mesh.RecomputeCentroid()
	mesh.Translate(mesh.Centroid.Scale(-1))
	radius := 0.0
	for _, p := range mesh.Points {
		if d := p.Len(); d > radius {
			radius = d
		}
	}
	if radius > 0 {
		mesh.Scale(1 / radius)
	}
}

// screenToLightDir maps a screen position to a light direction on the
// hemisphere facing the viewer.
func screenToLightDir(screenX, screenY, width, height int) math3d.Vec3 {
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1
	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	nz := math.Sqrt(1 - lenSq)
	return math3d.V3(nx, -ny, nz).Normalize()
}

func renderHUD(width, height int, filename string, faceCount int, fps float64, mode renderMode, lightMode, showHUD bool) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string { return fmt.Sprintf("\x1b[%d;%dH", row, col) }

	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if lightMode {
		msg := fmt.Sprintf("%s%s%s LIGHT MODE - move mouse to aim, click to set, Esc to cancel %s", bgBlack, bold, fgYellow, reset)
		fmt.Print(moveTo(height, max(1, (width-60)/2)) + msg)
		return
	}
	if !showHUD {
		return
	}

	fmt.Print(moveTo(1, 1) + fmt.Sprintf("%s%s %.0f FPS %s", bgBlack, fgGreen, fps, reset))
	title := fmt.Sprintf("%s%s%s %s [%s] %s", bold, bgBlack, fgWhite, filename, mode, reset)
	fmt.Print(moveTo(1, max(1, (width-len(filename)-len(mode.String())-4)/2)) + title)
	fmt.Print(moveTo(1, max(1, width-12)) + fmt.Sprintf("%s%s%s %d tris %s", bgBlack, fgCyan, bold, faceCount, reset))
	fmt.Print(moveTo(height, 1) + fmt.Sprintf("%s%s m: mode  t: texture  l: light  r: reset %s", bgBlack, fgWhite, reset))
}
