package commands

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markup"
	"git.home.luguber.info/inful/docsite/internal/navigation"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Path  string `arg:"" help:"Page path, e.g. getting-started/installation"`
	Style string `default:"auto" help:"Terminal style (auto, dark, light, notty, ascii, ...)"`
	Width int    `default:"80" help:"Word wrap width"`
}

// Run resolves the page like the server would and renders its source body
// with glamour.
func (s *ShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, g.logger(), pipelineOptions{strict: cfg.Build.Strict})
	if err != nil {
		return err
	}

	ctx := context.Background()
	page, err := p.assembler.Assemble(ctx, s.Path)
	if err != nil {
		return err
	}
	src, err := p.store.Read(ctx, navigation.Segments(page.Path))
	if err != nil {
		return err
	}

	body := bytes.TrimLeft(markup.Body(src), "\r\n")
	if !bytes.HasPrefix(body, []byte("#")) {
		body = append([]byte("# "+page.Title+"\n\n"), body...)
	}

	styleOpt := glamour.WithAutoStyle()
	if s.Style != "auto" {
		styleOpt = glamour.WithStandardStyle(s.Style)
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(s.Width))
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid terminal style").
			WithContext("style", s.Style).
			Build()
	}
	out, err := renderer.RenderBytes(body)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRender, "render document for terminal").
			WithContext("path", page.Path).
			Build()
	}
	_, err = fmt.Fprint(g.out(), string(out))
	return err
}
