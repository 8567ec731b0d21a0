package main

import (
	"context"
)

// PingOutput represents the response for the ping endpoint
type PingOutput struct {
	Body struct {
		Message  string `json:"message" example:"pong" doc:"Response message"`
		Aircraft int    `json:"aircraft" doc:"Number of aircraft currently tracked"`
	}
}

// handlePing is a health check that also reports how many aircraft are tracked
func (app *App) handlePing(ctx context.Context, input *struct{}) (*PingOutput, error) {
	resp := &PingOutput{}
	resp.Body.Message = "pong"
	resp.Body.Aircraft = app.tracker.Count()
	return resp, nil
}
