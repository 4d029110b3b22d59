package view

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned when the prompt input ends before an answer is read.
var ErrInputClosed = errors.New("input closed")

// PresetAnswers answers controls from a fixed map keyed by control name.
// Controls without a preset keep their current value.
type PresetAnswers map[string]string

func (p PresetAnswers) Choose(name string, options []Option, selected string) (string, error) {
	v, ok := p[name]
	if !ok || v == "" {
		return selected, nil
	}
	for _, o := range options {
		if o.ID == v {
			return v, nil
		}
	}
	ids := make([]string, 0, len(options))
	for _, o := range options {
		ids = append(ids, o.ID)
	}
	return "", fmt.Errorf("preset %q is not one of [%s]", v, strings.Join(ids, ", "))
}

func (p PresetAnswers) Text(name, label, value string) (string, error) {
	if v, ok := p[name]; ok && v != "" {
		return v, nil
	}
	return value, nil
}

// Prompter asks for answers on an interactive terminal. An empty line keeps
// the current value.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	defaults map[string]string
}

// NewPrompter creates a prompter reading lines from in.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// WithDefaults offers presets, keyed by control name, as the value an empty
// line accepts. Each preset is offered once, so a revisited page shows what
// was answered before.
func (p *Prompter) WithDefaults(presets map[string]string) *Prompter {
	p.defaults = make(map[string]string, len(presets))
	for k, v := range presets {
		if v != "" {
			p.defaults[k] = v
		}
	}
	return p
}

func (p *Prompter) takeDefault(name string) (string, bool) {
	v, ok := p.defaults[name]
	delete(p.defaults, name)
	return v, ok
}

func (p *Prompter) Choose(name string, options []Option, selected string) (string, error) {
	if len(options) == 0 {
		return selected, nil
	}
	if v, ok := p.takeDefault(name); ok {
		for _, o := range options {
			if strings.EqualFold(o.ID, v) {
				selected = o.ID
				break
			}
		}
	}
	for {
		fmt.Fprintf(p.out, "Select %s [1-%d]: ", strings.ReplaceAll(name, "_", " "), len(options))
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			return selected, nil
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
			return options[n-1].ID, nil
		}
		for _, o := range options {
			if strings.EqualFold(o.ID, line) || strings.EqualFold(o.Label, line) {
				return o.ID, nil
			}
		}
		fmt.Fprintf(p.out, "%q is not a valid choice\n", line)
	}
}

func (p *Prompter) Text(name, label, value string) (string, error) {
	if v, ok := p.takeDefault(name); ok {
		value = v
	}
	if value != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, value)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return value, nil
	}
	return line, nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
