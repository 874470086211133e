package studio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shinyyama/headshot-studio/internal/ai"
	"github.com/shinyyama/headshot-studio/internal/genctx"
	"github.com/shinyyama/headshot-studio/internal/style"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusUploading  Status = "uploading"
	StatusGenerating Status = "generating"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

var (
	ErrNoImage    = errors.New("no image uploaded")
	ErrBusy       = errors.New("generation in progress")
	ErrSuperseded = errors.New("generation result discarded: session changed while generating")
)

// Result is the outcome of the last successful generation.
type Result struct {
	OriginalImage  string    `json:"originalImage"`
	GeneratedImage string    `json:"generatedImage"`
	Instruction    string    `json:"instruction"`
	StyleID        style.ID  `json:"styleId"`
	CompletedAt    time.Time `json:"completedAt"`
}

type State struct {
	OriginalImage string   `json:"originalImage,omitempty"`
	StyleID       style.ID `json:"styleId"`
	CustomText    string   `json:"customText"`
	Status        Status   `json:"status"`
	ErrorCode     string   `json:"errorCode,omitempty"`
	ErrorMessage  string   `json:"errorMessage,omitempty"`
	Result        *Result  `json:"result,omitempty"`
}

func initialState() State {
	return State{StyleID: style.Default, Status: StatusIdle}
}

// Controller owns the state of one studio session. Every mutation goes
// through its methods; the model call runs without holding the lock.
type Controller struct {
	mu    sync.Mutex
	gen   ai.Generator
	now   func() time.Time
	state State
	token uint64
}

func NewController(gen ai.Generator) *Controller {
	return &Controller{gen: gen, now: time.Now, state: initialState()}
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}

// Upload replaces the source image and drops any previous result or error.
// A generation still in flight is abandoned.
func (c *Controller) Upload(image string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token++
	c.state.OriginalImage = image
	c.state.Result = nil
	c.state.ErrorCode = ""
	c.state.ErrorMessage = ""
	c.state.Status = StatusIdle
	return c.snapshotLocked()
}

// Clear resets the session to its initial configuration.
func (c *Controller) Clear() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token++
	c.state = initialState()
	return c.snapshotLocked()
}

func (c *Controller) SelectStyle(id string) (State, error) {
	opt, err := style.Lookup(id)
	if err != nil {
		return c.Snapshot(), err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status == StatusGenerating {
		return c.snapshotLocked(), ErrBusy
	}
	c.state.StyleID = opt.ID
	return c.snapshotLocked(), nil
}

func (c *Controller) SetCustomText(text string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status == StatusGenerating {
		return c.snapshotLocked(), ErrBusy
	}
	c.state.CustomText = text
	return c.snapshotLocked(), nil
}

// Generate runs one generation with the current inputs. Without an image or
// while another generation is running it changes nothing and returns
// ErrNoImage or ErrBusy. Model failures are recorded in the returned state,
// not returned as errors.
func (c *Controller) Generate(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.state.OriginalImage == "" {
		defer c.mu.Unlock()
		return c.snapshotLocked(), ErrNoImage
	}
	if c.state.Status == StatusGenerating {
		defer c.mu.Unlock()
		return c.snapshotLocked(), ErrBusy
	}
	styleID := c.state.StyleID
	source := c.state.OriginalImage
	instruction := ai.BuildInstruction(style.MustLookup(styleID), c.state.CustomText)
	c.token++
	token := c.token
	c.state.Status = StatusGenerating
	c.state.ErrorCode = ""
	c.state.ErrorMessage = ""
	c.mu.Unlock()

	image, err := c.callGenerator(ctx, source, instruction)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		log.Printf("[headshot] rid=%s session=%s stage=stale_discard token=%d current=%d",
			genctx.RID(ctx), genctx.SessionID(ctx), token, c.token)
		return c.snapshotLocked(), ErrSuperseded
	}
	if err != nil {
		c.state.Status = StatusError
		c.state.ErrorCode = ai.Code(err)
		c.state.ErrorMessage = err.Error()
		return c.snapshotLocked(), nil
	}
	c.state.Status = StatusSuccess
	c.state.Result = &Result{
		OriginalImage:  source,
		GeneratedImage: image,
		Instruction:    instruction,
		StyleID:        styleID,
		CompletedAt:    c.now(),
	}
	return c.snapshotLocked(), nil
}

// callGenerator turns a generator panic into a transport failure so the
// session never stays in the generating status.
func (c *Controller) callGenerator(ctx context.Context, source, instruction string) (image string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[headshot] rid=%s session=%s stage=generator_panic err=%v",
				genctx.RID(ctx), genctx.SessionID(ctx), r)
			image, err = "", fmt.Errorf("%w: %v", ai.ErrTransportFailure, r)
		}
	}()
	return c.gen.Generate(ctx, source, instruction)
}
