package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"stride/internal/daemon"
	"stride/internal/lifecycle"
	"stride/internal/logging"
	"stride/internal/logs"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Stride", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String("impact", "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String("impact", "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun stride stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String("component", "ipc"))
}

func (s *service) StartTracking(_ StartTrackingRequest, resp *StartTrackingResponse) error {
	s.log().Debug("tracking start requested")
	started, message := s.daemon.StartTracking(s.ctx)
	resp.Started = started
	resp.Message = message
	if started {
		s.log().Info("tracking started via IPC",
			logging.String(logging.FieldEventType, "tracking_start"))
	}
	return nil
}

func (s *service) StopTracking(_ StopTrackingRequest, resp *StopTrackingResponse) error {
	s.log().Debug("tracking stop requested")
	s.daemon.StopTracking()
	resp.Stopped = true
	s.log().Info("tracking stopped via IPC",
		logging.String(logging.FieldEventType, "tracking_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.Tracking = status.Tracking
	resp.ActiveSource = status.ActiveSource
	resp.NativeAvailable = status.NativeAvailable
	resp.SessionSteps = status.SessionSteps
	resp.TotalDailySteps = status.TotalDailySteps
	resp.Date = status.Date
	resp.DailyGoal = status.DailyGoal
	resp.SedentaryState = status.SedentaryState
	resp.SedentaryEnabled = status.SedentaryEnabled
	resp.LastActivity = status.LastActivity
	resp.Lifecycle = status.Lifecycle
	resp.DBPath = status.DBPath
	resp.LockPath = status.LockFilePath
	resp.PID = status.PID
	resp.Checks = make([]CheckResult, 0, len(status.Checks))
	for _, check := range status.Checks {
		resp.Checks = append(resp.Checks, CheckResult{
			Name:   check.Name,
			Passed: check.Passed,
			Detail: check.Detail,
		})
	}
	return nil
}

func (s *service) Steps(_ StepsRequest, resp *StepsResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Date = status.Date
	resp.TotalDailySteps = status.TotalDailySteps
	resp.SessionSteps = status.SessionSteps
	resp.DailyGoal = status.DailyGoal
	resp.Tracking = status.Tracking
	resp.ActiveSource = status.ActiveSource
	return nil
}

func (s *service) History(req HistoryRequest, resp *HistoryResponse) error {
	entries, err := s.daemon.History(s.ctx, req.Days)
	if err != nil {
		return err
	}
	resp.Entries = entries
	return nil
}

func (s *service) LogActivity(req LogActivityRequest, resp *LogActivityResponse) error {
	total, err := s.daemon.RecordActivity(s.ctx, req.Steps)
	if err != nil {
		return err
	}
	resp.TotalDailySteps = total
	s.log().Info("manual activity logged via IPC",
		logging.String(logging.FieldEventType, "manual_activity"),
		logging.Uint64("steps", uint64(req.Steps)))
	return nil
}

func (s *service) Lifecycle(req LifecycleRequest, resp *LifecycleResponse) error {
	if err := s.daemon.SetLifecycle(lifecycle.State(req.State)); err != nil {
		return err
	}
	resp.Accepted = true
	return nil
}

func (s *service) Sedentary(req SedentaryRequest, resp *SedentaryResponse) error {
	if err := s.daemon.SetSedentaryEnabled(s.ctx, req.Enabled); err != nil {
		return err
	}
	resp.Enabled = req.Enabled
	s.log().Info("sedentary nudging toggled via IPC",
		logging.String(logging.FieldEventType, "sedentary_toggle"),
		logging.Bool("enabled", req.Enabled))
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
