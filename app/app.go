// Package app runs the interactive card list on a tcell screen.
package app

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/parallax/config"
	"github.com/lixenwraith/parallax/core"
	"github.com/lixenwraith/parallax/input"
	"github.com/lixenwraith/parallax/listview"
	"github.com/lixenwraith/parallax/parallax"
	"github.com/lixenwraith/parallax/parameter"
	"github.com/lixenwraith/parallax/picture"
	"github.com/lixenwraith/parallax/render"
	"github.com/lixenwraith/parallax/scroll"
)

// EdgePlayer gives feedback when the list becomes pinned at an end
type EdgePlayer interface {
	PlayEdge() bool
}

// Options wires the collaborators of an App
type Options struct {
	Screen tcell.Screen // initialized by the caller
	Images listview.ImageSource
	Config *config.Config
	Sound  EdgePlayer // optional
}

// App owns the screen, the scroll state and the list
type App struct {
	screen tcell.Screen
	buf    *render.RenderBuffer
	sound  EdgePlayer

	tracker   *parallax.Tracker
	container *scroll.Container
	renderer  *listview.Renderer
	list      *listview.ListView
	machine   *input.Machine

	width, height int
	edge          parallax.Viewport
	dirty         bool
	unsubscribe   func()
}

// New builds the app and lays it out for the current screen size
func New(opts Options) (*App, error) {
	if opts.Screen == nil || opts.Images == nil || opts.Config == nil {
		return nil, fmt.Errorf("app: screen, images and config are required")
	}
	cfg := opts.Config

	mode, err := picture.ParseMode(cfg.Display.Mode)
	if err != nil {
		return nil, err
	}
	keys, err := cfg.KeyTable()
	if err != nil {
		return nil, err
	}

	a := &App{
		screen:  opts.Screen,
		buf:     render.NewRenderBuffer(0, 0, render.RGBSurface),
		sound:   opts.Sound,
		machine: input.NewMachine(keys),
		tracker: parallax.NewTracker(parallax.Config{
			Speed:     cfg.Parallax.Speed,
			MaxOffset: cfg.Parallax.MaxOffset,
		}),
		dirty: true,
	}
	a.container = scroll.NewContainer(cfg.Parallax.RowPixels, a.tracker.OnScroll)
	a.renderer = listview.NewRenderer(opts.Images, listview.Options{
		MaxOffset: cfg.Parallax.MaxOffset,
		Mode:      mode,
		PaddingX:  cfg.Display.CardPaddingX,
		PaddingY:  cfg.Display.CardPaddingY,
		Surface:   render.RGBSurface,
	})
	a.list = a.renderer.RenderList(cfg.Locations, a.tracker.Offset)
	a.unsubscribe = a.tracker.Subscribe(func(float64) {
		a.list.Invalidate()
		a.dirty = true
	})

	a.screen.EnableMouse()
	a.resize(a.screen.Size())
	return a, nil
}

// Tracker exposes the parallax state
func (a *App) Tracker() *parallax.Tracker { return a.tracker }

// Container exposes the scroll state
func (a *App) Container() *scroll.Container { return a.container }

// Buffer returns the last composed frame
func (a *App) Buffer() *render.RenderBuffer { return a.buf }

// Close releases the tracker subscription
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Run polls screen events until quit or the screen closes
func (a *App) Run() {
	events := make(chan tcell.Event, 256)
	core.Go(func() {
		defer close(events)
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	ticker := time.NewTicker(parameter.FrameInterval)
	defer ticker.Stop()

	a.Draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if a.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			if a.dirty {
				a.Draw()
			}
		}
	}
}

// HandleEvent applies one screen event and reports whether the app should quit
func (a *App) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.resize(ev.Size())
		a.screen.Sync()
		return false
	case *tcell.EventInterrupt:
		// Image settled in the loader
		a.dirty = true
		return false
	}
	intent := a.machine.Process(ev)
	if intent.Action == input.ActionNone {
		return false
	}
	return a.Apply(intent)
}

// Apply performs one input intent and reports whether the app should quit
func (a *App) Apply(in input.Intent) (quit bool) {
	n := max(in.Count, 1)
	moved := 0

	switch in.Action {
	case input.ActionLineDown:
		moved = a.container.ScrollBy(n * parameter.KeyStepRows)
	case input.ActionLineUp:
		moved = a.container.ScrollBy(-n * parameter.KeyStepRows)
	case input.ActionWheelDown:
		moved = a.container.ScrollBy(n * parameter.WheelStepRows)
	case input.ActionWheelUp:
		moved = a.container.ScrollBy(-n * parameter.WheelStepRows)
	case input.ActionHalfPageDown:
		for range n {
			moved += a.container.PageDown()
		}
	case input.ActionHalfPageUp:
		for range n {
			moved += a.container.PageUp()
		}
	case input.ActionTop:
		moved = a.container.Home()
	case input.ActionBottom:
		moved = a.container.End()
	case input.ActionToggleMode:
		a.toggleMode()
	case input.ActionRedraw:
		a.screen.Sync()
	case input.ActionQuit:
		return true
	}

	if moved != 0 {
		a.dirty = true
		a.checkEdge()
	}
	return false
}

func (a *App) toggleMode() {
	mode := picture.ModeBackground
	if a.renderer.Options().Mode == picture.ModeBackground {
		mode = picture.ModeQuadrant
	}
	a.renderer.SetMode(mode)
	a.dirty = true
	log.Printf("app: render mode %s", mode)
}

// checkEdge plays the edge sound whenever the viewport lands on a different pinned edge
func (a *App) checkEdge() {
	vp := a.container.Viewport()
	if vp.Pinned() && vp != a.edge && a.sound != nil {
		a.sound.PlayEdge()
	}
	a.edge = vp
}

func (a *App) resize(w, h int) {
	a.width, a.height = w, h
	a.buf.Resize(w, h)
	a.renderer.SetWidth(w)
	a.container.SetViewport(max(h-parameter.TitleBarHeight-parameter.StatusBarHeight, 0))
	a.container.SetItems(a.list.Heights())
	a.edge = a.container.Viewport()
	a.dirty = true
}

// Draw composes a full frame and shows it
func (a *App) Draw() {
	a.buf.Clear()
	a.drawTitle()

	listArea := render.Rect{
		Y: parameter.TitleBarHeight,
		W: a.width,
		H: a.container.ViewportHeight(),
	}
	a.list.Draw(a.buf, listArea, a.container)

	a.drawStatus()
	a.buf.FlushToScreen(a.screen)
	a.dirty = false
}

func (a *App) drawTitle() {
	if a.height < parameter.TitleBarHeight {
		return
	}
	a.buf.Fill(render.Rect{W: a.width, H: parameter.TitleBarHeight}, render.RGBTitleBar)
	title := runewidth.Truncate(parameter.TitleText, a.width, "…")
	x := max((a.width-runewidth.StringWidth(title))/2, 0)
	a.buf.Text(x, 0, a.width, title, render.RGBWhite, render.AttrBold)
}

func (a *App) drawStatus() {
	y := a.height - parameter.StatusBarHeight
	if y < parameter.TitleBarHeight {
		return
	}
	a.buf.Fill(render.Rect{Y: y, W: a.width, H: parameter.StatusBarHeight}, render.RGBTitleBar)

	vp := a.container.Viewport()
	edge := ""
	switch {
	case vp.FirstVisible && vp.LastVisible:
		edge = " [all]"
	case vp.FirstVisible:
		edge = " [top]"
	case vp.LastVisible:
		edge = " [end]"
	}
	left := fmt.Sprintf(" offset %+7.1f  bias %+.2f  %3d%%%s", a.tracker.Offset(), a.tracker.Bias(), a.container.Percent(), edge)
	if p := a.machine.Pending(); p != "" {
		left += "  " + p
	}
	written := a.buf.Text(0, y, a.width, left, render.RGBWhite, render.AttrNone)

	help := "j/k scroll  g/G ends  m mode  q quit "
	hw := runewidth.StringWidth(help)
	if written+2+hw <= a.width {
		a.buf.Text(a.width-hw, y, hw, help, render.RGBHint, render.AttrNone)
	}
}
