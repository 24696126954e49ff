// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package logic

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/svc"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/types"
	chatpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/chat"
)

type ChatLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatLogic {
	return &ChatLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Chat answers one turn. Any failure, including a panic below this point, is
// reported inside the response body rather than as an HTTP error.
func (l *ChatLogic) Chat(req *types.ChatRequest) (resp *types.ChatResponse, err error) {
	defer func() {
		if p := recover(); p != nil {
			l.Errorf("chat: recovered panic: %v\n%s", p, debug.Stack())
			resp = &types.ChatResponse{Response: chatpkg.UnexpectedErrorText(fmt.Errorf("%v", p))}
			err = nil
		}
	}()

	if l.svcCtx == nil || l.svcCtx.Chat == nil {
		return &types.ChatResponse{Response: chatpkg.UnexpectedErrorText(fmt.Errorf("chat service not initialised"))}, nil
	}
	reply := l.svcCtx.Chat.Respond(l.ctx, req.Message, req.SessionId)
	return &types.ChatResponse{Response: reply.Text}, nil
}
