package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/ShareRoom/internal/core"
	"github.com/dkeye/ShareRoom/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.Opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.Opts.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.Opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump owns the connection lifetime: when it returns the member is
// removed from its room exactly once.
func (ctl *SignalWSController) readPump(ctx context.Context, id domain.ConnID, c *WsSignalConn) {
	stop := context.AfterFunc(ctx, c.Close)
	defer func() {
		stop()
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump closing")
		c.Close()
		ctl.Orch.OnDisconnect(id)
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(id)
		}
	}()

	c.conn.SetReadLimit(ctl.Opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.Opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("readPump read error")
			}
			return
		}
		ctl.handleSignal(id, data)
	}
}

func (ctl *SignalWSController) handleSignal(id domain.ConnID, data []byte) {
	var ev core.Event
	if err := json.Unmarshal(data, &ev); err != nil || ev.Type == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad json")
		ctl.Orch.Reply(id, core.ErrorMsg{Type: core.MsgError, Error: core.ErrCodeBadPayload})
		return
	}
	if !ctl.allow(id, ev.Type) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Str("type", ev.Type).Msg("rate limited")
		ctl.Orch.Reply(id, core.ErrorMsg{Type: core.MsgError, Error: core.ErrCodeRateLimited})
		return
	}
	ctl.Orch.Dispatch(id, ev)
}
