package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/zrg-storefront/internal/logger"
)

// LoginURLSource 后端提供的登录地址
type LoginURLSource interface {
	GetLoginURL(ctx context.Context) (string, error)
}

// SSOOptions 单点登录配置
type SSOOptions struct {
	AuthorizeURL string
	ClientID     string
	RedirectURI  string
	Scope        string
}

// SSOService 单点登录跳转，不处理回调
type SSOService struct {
	options SSOOptions
	source  LoginURLSource
}

// NewSSOService 创建 SSO 服务
func NewSSOService(options SSOOptions, source LoginURLSource) *SSOService {
	return &SSOService{options: options, source: source}
}

// LoginURL 配置齐全时本地拼接，否则向后端获取
func (s *SSOService) LoginURL(ctx context.Context) (string, error) {
	if built, ok := s.buildLocal(); ok {
		return built, nil
	}
	if s.source == nil {
		return "", ErrSSOUnavailable
	}
	loginURL, err := s.source.GetLoginURL(ctx)
	if err != nil {
		logger.Warnw("sso_login_url_fetch_failed", "error", err)
		return "", errors.Join(ErrSSOUnavailable, err)
	}
	return loginURL, nil
}

func (s *SSOService) buildLocal() (string, bool) {
	authorizeURL := strings.TrimSpace(s.options.AuthorizeURL)
	clientID := strings.TrimSpace(s.options.ClientID)
	if authorizeURL == "" || clientID == "" {
		return "", false
	}
	parsed, err := url.Parse(authorizeURL)
	if err != nil {
		logger.Warnw("sso_authorize_url_invalid", "url", authorizeURL, "error", err)
		return "", false
	}
	query := parsed.Query()
	query.Set("response_type", "code")
	query.Set("client_id", clientID)
	if redirect := strings.TrimSpace(s.options.RedirectURI); redirect != "" {
		query.Set("redirect_uri", redirect)
	}
	if scope := strings.TrimSpace(s.options.Scope); scope != "" {
		query.Set("scope", scope)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), true
}
