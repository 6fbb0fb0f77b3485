package server

import (
	"context"
	"net/http"

	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/session"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const LeaderboardServicePath = "/leaderboard.v1.LeaderboardService/"

const (
	GetLeaderboardProcedure = LeaderboardServicePath + "GetLeaderboard"
	SetQueueProcedure       = LeaderboardServicePath + "SetQueue"
	SetSearchTermProcedure  = LeaderboardServicePath + "SetSearchTerm"
	TriggerRefreshProcedure = LeaderboardServicePath + "TriggerRefresh"
)

// Session is the part of the session controller the RPC surface drives.
type Session interface {
	View() session.View
	Subscribe() (<-chan session.View, func())
	SetQueue(queue domain.Queue) error
	SetSearchTerm(term string)
	TriggerManualRefresh()
}

var _ Session = (*session.Controller)(nil)

type LeaderboardServer struct {
	session Session
	logger  zerolog.Logger
}

func NewLeaderboardServer(s Session, logger zerolog.Logger) *LeaderboardServer {
	return &LeaderboardServer{session: s, logger: logger}
}

func (s *LeaderboardServer) GetLeaderboard(ctx context.Context, req *connect.Request[GetLeaderboardRequest]) (*connect.Response[LeaderboardResponse], error) {
	view := s.session.View()
	zerolog.Ctx(ctx).Debug().Int("rows", len(view.Rows)).Msg("leaderboard served")
	return connect.NewResponse(&LeaderboardResponse{View: view}), nil
}

func (s *LeaderboardServer) SetQueue(ctx context.Context, req *connect.Request[SetQueueRequest]) (*connect.Response[AckResponse], error) {
	if err := s.session.SetQueue(domain.Queue(req.Msg.Queue)); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&AckResponse{Accepted: true}), nil
}

func (s *LeaderboardServer) SetSearchTerm(ctx context.Context, req *connect.Request[SetSearchTermRequest]) (*connect.Response[AckResponse], error) {
	s.session.SetSearchTerm(req.Msg.Term)
	return connect.NewResponse(&AckResponse{Accepted: true}), nil
}

// TriggerRefresh is accepted even while a refresh is in flight; the session ignores the extra press.
func (s *LeaderboardServer) TriggerRefresh(ctx context.Context, req *connect.Request[TriggerRefreshRequest]) (*connect.Response[AckResponse], error) {
	accepted := !s.session.View().Refreshing
	s.session.TriggerManualRefresh()
	return connect.NewResponse(&AckResponse{Accepted: accepted}), nil
}

// Handler mounts the four unary procedures under LeaderboardServicePath.
func (s *LeaderboardServer) Handler() (string, http.Handler) {
	codec := connect.WithCodec(jsonCodec{})

	mux := http.NewServeMux()
	mux.Handle(GetLeaderboardProcedure, connect.NewUnaryHandler(GetLeaderboardProcedure, s.GetLeaderboard, codec))
	mux.Handle(SetQueueProcedure, connect.NewUnaryHandler(SetQueueProcedure, s.SetQueue, codec))
	mux.Handle(SetSearchTermProcedure, connect.NewUnaryHandler(SetSearchTermProcedure, s.SetSearchTerm, codec))
	mux.Handle(TriggerRefreshProcedure, connect.NewUnaryHandler(TriggerRefreshProcedure, s.TriggerRefresh, codec))
	return LeaderboardServicePath, mux
}
