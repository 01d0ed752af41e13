package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// Client speaks NDJSON to one mpv IPC connection.
type Client struct {
	conn    net.Conn
	scanner *bufio.Scanner
	mu      sync.Mutex
	nextID  int
}

// Connect dials the mpv IPC Unix socket.
func Connect(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to mpv: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB buffer
	return &Client{conn: conn, scanner: scanner}, nil
}

// Close shuts down the connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// SendCommand sends cmd and waits for its response. Events arriving on the
// same connection before the response are dropped.
func (c *Client) SendCommand(ctx context.Context, cmd Command) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dl, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(dl)
		defer c.conn.SetDeadline(time.Time{})
	}

	c.nextID++
	cmd.RequestID = c.nextID

	data, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("marshal command: %w", err)
	}
	data = append(data, '\n')
	if _, err := c.conn.Write(data); err != nil {
		return Response{}, fmt.Errorf("write command: %w", err)
	}

	for {
		line, err := c.readLine()
		if err != nil {
			return Response{}, fmt.Errorf("read response: %w", err)
		}
		var probe struct {
			Event     string `json:"event"`
			RequestID int    `json:"request_id"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			return Response{}, fmt.Errorf("unmarshal response: %w", err)
		}
		if probe.Event != "" || probe.RequestID != cmd.RequestID {
			continue
		}
		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			return Response{}, fmt.Errorf("unmarshal response: %w", err)
		}
		return resp, nil
	}
}

// Do sends a command and converts an mpv-side failure into an error.
func (c *Client) Do(ctx context.Context, name string, args ...any) (Response, error) {
	resp, err := c.SendCommand(ctx, Cmd(name, args...))
	if err != nil {
		return resp, err
	}
	if !resp.OK() {
		return resp, fmt.Errorf("mpv %s: %s", name, resp.Error)
	}
	return resp, nil
}

// ReadEvent reads the next event line. Blocks until data arrives.
// Command responses on the connection are skipped.
func (c *Client) ReadEvent() (Event, error) {
	for {
		line, err := c.readLine()
		if err != nil {
			return Event{}, fmt.Errorf("read event: %w", err)
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return Event{}, fmt.Errorf("unmarshal event: %w", err)
		}
		if ev.Event == "" {
			continue
		}
		return ev, nil
	}
}

func (c *Client) readLine() ([]byte, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("connection closed")
	}
	return c.scanner.Bytes(), nil
}
