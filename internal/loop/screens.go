package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/lanerunner/internal/config"
	"github.com/tomz197/lanerunner/internal/object"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	ctx := object.DrawContext{
		Canvas: c.canvas,
		Camera: c.state.Camera,
		View:   c.state.View,
	}

	if err := c.drawWorld(ctx); err != nil {
		return err
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}

	// Draw border when terminal exceeds max render resolution
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawWorld draws the road, traffic, the player and crash debris.
func (c *Client) drawWorld(ctx object.DrawContext) error {
	if err := c.sim.Road.Draw(ctx); err != nil {
		return err
	}
	for _, car := range c.sim.Traffic.Cars {
		if err := car.Draw(ctx); err != nil {
			return err
		}
	}

	if object.ShouldRenderBlink(c.state.crashTimer, 5.0) {
		if err := c.sim.Player.Draw(ctx); err != nil {
			return err
		}
	}

	for _, p := range c.state.particles {
		if err := p.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// writeText writes a line of UI text and marks the cells it covers so the
// canvas repaints them once the text is gone.
func (c *Client) writeText(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, len(s))
}

// writeCentered writes s centered on column centerX.
func (c *Client) writeCentered(centerX, row int, s string) {
	c.writeText(centerX-len(s)/2, row, s)
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateDead:
		c.drawDeadScreen(centerX, centerY)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleArt := []string{
		` _      _   _  _ ___   ___ _   _ _  _ _  _ ___ ___  `,
		`| |    /_\ | \| | __| | _ \ | | | \| | \| | __| _ \ `,
		`| |__ / _ \| .  | _|  |   / |_| | .  | .  | _||   / `,
		`|____/_/ \_\_|\_|___| |_|_\\___/|_|\_|_|\_|___|_|_\ `,
	}

	titleWidth := 0
	for _, line := range titleArt {
		if len(line) > titleWidth {
			titleWidth = len(line)
		}
	}

	titleStartY := centerY - 7
	for i, line := range titleArt {
		c.writeText(centerX-titleWidth/2, titleStartY+i, line)
	}

	c.writeCentered(centerX, titleStartY+len(titleArt)+1, "~ Dodge the oncoming traffic ~")

	controlsY := titleStartY + len(titleArt) + 3
	c.writeCentered(centerX, controlsY, "Controls")

	controlLines := []string{
		"W / Up  . . .  Accelerate",
		"S / Down . . . . . Brake",
		"A D / < >  . . .  Steer",
		"R  . . . . . . . Restart",
		"Q  . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, controlsY+1+i, line)
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, controlsY+len(controlLines)+2, ">>  Press SPACE to Start  <<")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	frame := c.sim.LastFrame()

	c.writeText(2, 1, fmt.Sprintf("Score: %-8d", frame.HUD.Score))

	speedText := fmt.Sprintf("Speed: %6s", frame.HUD.Speed)
	c.writeText(termWidth-len(speedText)-1, 1, speedText)

	c.writeText(2, termHeight, fmt.Sprintf("Distance: %-8.0f", frame.Player.Position.Z))

	if frame.Player.Taillights {
		c.writeText(termWidth-len("BRAKE")-1, termHeight, "BRAKE")
	} else {
		c.writeText(termWidth-len("BRAKE")-1, termHeight, "     ")
	}
}

// drawDeadScreen draws the game over screen.
func (c *Client) drawDeadScreen(centerX, centerY int) {
	titleArt := []string{
		`   ___ ___    _   ___ _  _ ___ ___  `,
		`  / __| _ \  /_\ / __| || | __|   \ `,
		` | (__|   / / _ \\__ \ __ | _|| |) |`,
		`  \___|_|_\/_/ \_\___/_||_|___|___/ `,
	}

	titleWidth := 0
	for _, line := range titleArt {
		if len(line) > titleWidth {
			titleWidth = len(line)
		}
	}

	titleStartY := centerY - 6
	for i, line := range titleArt {
		c.writeText(centerX-titleWidth/2, titleStartY+i, line)
	}

	frame := c.sim.LastFrame()
	c.writeCentered(centerX, titleStartY+len(titleArt)+1, fmt.Sprintf("Final score: %d", frame.FinalScore))
	c.writeCentered(centerX, titleStartY+len(titleArt)+3, fmt.Sprintf("Distance: %.0f", frame.Player.Position.Z))

	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, titleStartY+len(titleArt)+5, ">>  Press SPACE to Restart  <<")
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
