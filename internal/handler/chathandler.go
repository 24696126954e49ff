// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/logic"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/svc"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/types"
	chatpkg "github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/chat"
)

func ChatHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := httpx.Parse(r, &req); err != nil {
			// Clients only read the response field, so a bad body is answered
			// in-band like any other failure.
			logx.WithContext(r.Context()).Errorf("chat: parse request: %v", err)
			httpx.OkJsonCtx(r.Context(), w, &types.ChatResponse{Response: chatpkg.UnexpectedErrorText(err)})
			return
		}

		l := logic.NewChatLogic(r.Context(), svcCtx)
		resp, err := l.Chat(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
