package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/KingcleverFcl/wna-syte/config"
)

// SessionName Cookie 名称
const SessionName = "wna_session"

// flashMaxAge Flash Cookie 有效期（秒），只需撑过一次重定向
const flashMaxAge = 300

// Store 基于签名 Cookie 的 Flash 消息存储
// Cookie 中只保存待展示的提示文案，不保存任何身份信息
type Store struct {
	store  *sessions.CookieStore
	logger *zap.Logger
}

// NewStore 创建 Flash 存储
func NewStore(cfg *config.SessionConfig, logger *zap.Logger) *Store {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: store, logger: logger}
}

// AddFlash 追加一条提示，下次渲染页面时展示
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	// 签名校验失败时 Get 仍返回一个新会话，覆盖即可
	sess, _ := s.store.Get(r, SessionName)
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("保存 flash 失败: %w", err)
	}
	return nil
}

// Flashes 取出并清空所有提示
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, err := s.store.Get(r, SessionName)
	if err != nil {
		s.logger.Debug("忽略无效的会话 Cookie", zap.Error(err))
	}

	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		s.logger.Warn("清除 flash 失败", zap.Error(err))
	}

	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(string); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}
