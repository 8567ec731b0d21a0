package main

import (
	"bytes"
	"context"
	"image"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"flight-tracker/internal/display"
	"flight-tracker/internal/render"
	"flight-tracker/internal/types"
)

type GetFrameInput struct {
	Mode   string `query:"mode" enum:"map,overhead,stats" default:"map" doc:"Requested display mode"`
	Format string `query:"format" enum:"png,webp" default:"png" doc:"Image encoding"`
}

type GetFrameOutput struct {
	ContentType    string `header:"Content-Type"`
	DisplayMode    string `header:"X-Display-Mode" doc:"Mode actually rendered"`
	ProximityAlert string `header:"X-Proximity-Alert"`
	Body           []byte
}

// handleGetFrame renders one frame. The controller may override the
// requested mode, e.g. while a proximity alert is active.
func (app *App) handleGetFrame(ctx context.Context, input *GetFrameInput) (*GetFrameOutput, error) {
	mode, err := display.ParseMode(input.Mode)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	format, err := render.ParseFormat(input.Format)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	var closest *types.Aircraft
	if ac, err := app.tracker.Closest(); err == nil {
		closest = &ac
	}

	frame := app.display.Frame(app.now(), mode, closest)

	var img image.Image
	switch frame.Mode {
	case display.ModeOverhead:
		img = app.renderer.Overhead(closest)
	case display.ModeStats:
		var ac *types.Aircraft
		if s, err := app.statistic(frame.Stat); err == nil {
			ac = &s
		}
		img = app.renderer.Stats(frame.Stat, ac)
	default:
		img = app.renderer.Map(app.tracker.Aircraft(), app.tracker.Trails())
	}

	var buf bytes.Buffer
	if err := render.Encode(&buf, img, format); err != nil {
		app.logger.Error("failed to encode frame", "mode", frame.Mode, "format", format, "error", err)
		return nil, huma.Error500InternalServerError("failed to encode frame")
	}

	return &GetFrameOutput{
		ContentType:    format.ContentType(),
		DisplayMode:    string(frame.Mode),
		ProximityAlert: strconv.FormatBool(frame.ProximityAlert),
		Body:           buf.Bytes(),
	}, nil
}
