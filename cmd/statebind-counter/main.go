// Package main is a terminal demo of statebind: a counter whose state lives
// in a JSON-backed store and whose view model is populated entirely through
// property bindings.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/statebind"
	"github.com/dshills/statebind/binding"
	"github.com/dshills/statebind/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	eng := statebind.New(statebind.WithStore(newCounterStore()))

	bp := binding.NewBlueprint().
		Property("Value", "counter.value", binding.WithChangeNotify()).
		Property("Step", "counter.step").
		Property("Message", "counter.message").
		Method("Increment", "INCREMENT").
		Method("Decrement", "DECREMENT").
		Method("SetStep", "SET_STEP").
		Method("Reset", "RESET")
	if err := eng.Register(&counterView{}, bp); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	view := &counterView{}
	inst, err := eng.Attach(view)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer inst.Dispose()

	view.redraw = func() { draw(screen, view) }
	draw(screen, view)

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			draw(screen, view)

		case *tcell.EventKey:
			if done := handleKey(ev, inst); done {
				return 0
			}
			draw(screen, view)
		}
	}
}

func handleKey(ev *tcell.EventKey, inst *binding.Instance) bool {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
		return true
	case ev.Rune() == 'q':
		return true
	case ev.Rune() == '+', ev.Rune() == '=', ev.Key() == tcell.KeyUp:
		inst.Invoke("Increment")
	case ev.Rune() == '-', ev.Key() == tcell.KeyDown:
		inst.Invoke("Decrement")
	case ev.Rune() >= '1' && ev.Rune() <= '9':
		inst.Invoke("SetStep", float64(ev.Rune()-'0'))
	case ev.Rune() == 'r':
		inst.Invoke("Reset")
	}
	return false
}

// counterView is populated by the binding engine. Numeric fields are float64
// because the store state is JSON.
type counterView struct {
	Value   float64
	Step    float64
	Message string

	lastChange string
	redraw     func()
}

// ValueChanged records the transition and repaints.
func (v *counterView) ValueChanged(newValue, oldValue any) {
	v.lastChange = fmt.Sprintf("value %v -> %v", oldValue, newValue)
	if v.redraw != nil {
		v.redraw()
	}
}

func draw(screen tcell.Screen, view *counterView) {
	screen.Clear()
	style := tcell.StyleDefault

	drawText(screen, 2, 1, style.Bold(true), "statebind counter")
	drawText(screen, 2, 3, style, fmt.Sprintf("value:   %.0f", view.Value))
	drawText(screen, 2, 4, style, fmt.Sprintf("step:    %.0f", view.Step))
	drawText(screen, 2, 5, style, fmt.Sprintf("status:  %s", view.Message))
	drawText(screen, 2, 6, style.Dim(true), view.lastChange)
	drawText(screen, 2, 8, style.Dim(true), "+/- adjust  1-9 set step  r reset  q quit")

	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// jsonStore keeps its whole state as a JSON document and reduces actions by
// rewriting paths in place.
type jsonStore struct {
	mu        sync.Mutex
	state     json.RawMessage
	listeners []func()
}

func newCounterStore() *jsonStore {
	return &jsonStore{
		state: json.RawMessage(`{"counter":{"value":0,"step":1,"message":"ready"}}`),
	}
}

func (s *jsonStore) GetState() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *jsonStore) Dispatch(action any) (any, error) {
	act, ok := action.(store.Action)
	if !ok {
		return action, nil
	}

	s.mu.Lock()
	next, err := reduce(s.state, act)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = next
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l()
	}
	return act, nil
}

func (s *jsonStore) Subscribe(listener func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
	idx := len(s.listeners) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.listeners) {
			s.listeners[idx] = func() {}
		}
	}
}

func reduce(state json.RawMessage, act store.Action) (json.RawMessage, error) {
	value := jsonNumber(state, "counter.value")
	step := jsonNumber(state, "counter.step")

	switch act.Type {
	case "INCREMENT":
		return setCounter(state, value+step, fmt.Sprintf("incremented by %.0f", step))
	case "DECREMENT":
		return setCounter(state, value-step, fmt.Sprintf("decremented by %.0f", step))
	case "SET_STEP":
		n, ok := act.Payload.(float64)
		if !ok {
			return state, nil
		}
		out, err := sjson.SetBytes(state, "counter.step", n)
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(out, "counter.message", fmt.Sprintf("step set to %.0f", n))
	case "RESET":
		return json.RawMessage(`{"counter":{"value":0,"step":1,"message":"reset"}}`), nil
	default:
		return state, nil
	}
}

func setCounter(state json.RawMessage, value float64, message string) (json.RawMessage, error) {
	out, err := sjson.SetBytes(state, "counter.value", value)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, "counter.message", message)
}

func jsonNumber(state json.RawMessage, path string) float64 {
	return gjson.GetBytes(state, path).Float()
}
