package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// StartTracking requests the daemon to begin a tracking session.
func (c *Client) StartTracking() (*StartTrackingResponse, error) {
	var resp StartTrackingResponse
	if err := c.client.Call("Stride.StartTracking", StartTrackingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopTracking requests the daemon to end the tracking session.
func (c *Client) StopTracking() (*StopTrackingResponse, error) {
	var resp StopTrackingResponse
	if err := c.client.Call("Stride.StopTracking", StopTrackingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Stride.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Steps retrieves the live step counters.
func (c *Client) Steps() (*StepsResponse, error) {
	var resp StepsResponse
	if err := c.client.Call("Stride.Steps", StepsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History retrieves recent daily totals.
func (c *Client) History(days int) (*HistoryResponse, error) {
	var resp HistoryResponse
	if err := c.client.Call("Stride.History", HistoryRequest{Days: days}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogActivity credits manually logged steps.
func (c *Client) LogActivity(steps uint32) (*LogActivityResponse, error) {
	var resp LogActivityResponse
	if err := c.client.Call("Stride.LogActivity", LogActivityRequest{Steps: steps}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Lifecycle reports an app lifecycle transition.
func (c *Client) Lifecycle(state string) (*LifecycleResponse, error) {
	var resp LifecycleResponse
	if err := c.client.Call("Stride.Lifecycle", LifecycleRequest{State: state}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sedentary toggles sedentary nudging.
func (c *Client) Sedentary(enabled bool) (*SedentaryResponse, error) {
	var resp SedentaryResponse
	if err := c.client.Call("Stride.Sedentary", SedentaryRequest{Enabled: enabled}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Stride.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Stride.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
