package page

import (
	"context"
	"strings"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/session"
	"github.com/hitoshi/atency/internal/view"
)

// AuthResult はログイン・登録の結果。
type AuthResult struct {
	User   model.User
	Notice Notice
}

// Login はログインし、セッションを保存してロールに応じた画面へ遷移する。
// 入力不足やログイン失敗はFailureとして返し、401でも強制ログアウトは行わない。
func (c *Controller) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := c.Enter(ctx, session.ViewLogin); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if msg := view.ValidateLogin(username, password); msg != "" {
		return nil, &Failure{Message: msg}
	}

	resp, err := c.api.Login(ctx, model.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, &Failure{Message: formMessage(err, view.MsgLoginFailed), Err: err}
	}

	return c.startSession(ctx, resp, view.MsgLoginWelcome)
}

// Register はユーザー登録し、セッションを保存してロールに応じた画面へ遷移する。
// 入力検証エラーとサーバーのフィールドエラーはFailure.Fieldsに入る。
func (c *Controller) Register(ctx context.Context, fullName, username, password string) (*AuthResult, error) {
	if err := c.Enter(ctx, session.ViewRegister); err != nil {
		return nil, err
	}

	fullName = strings.TrimSpace(fullName)
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if fields := view.ValidateRegistration(fullName, username, password); !fields.Empty() {
		return nil, &Failure{Message: view.MsgRegisterFailed, Fields: fields}
	}

	resp, err := c.api.Register(ctx, model.RegisterRequest{FullName: fullName, Username: username, Password: password})
	if err != nil {
		f := &Failure{Message: formMessage(err, view.MsgRegisterFailed), Err: err}
		if apiErr := model.AsAPIError(err); apiErr != nil {
			f.Fields = view.MergeServerErrors(view.FieldErrors{}, apiErr.ValidationErrors)
		}
		return nil, f
	}

	return c.startSession(ctx, resp, view.MsgRegisterSucceeded)
}

func (c *Controller) startSession(ctx context.Context, resp *model.AuthResponse, message string) (*AuthResult, error) {
	if resp == nil {
		return nil, &Failure{Message: view.MsgSomethingWentWrong}
	}
	if err := c.sessions.SetSession(ctx, resp); err != nil {
		return nil, err
	}
	c.nav.Navigate(session.LandingView(resp.Role))
	return &AuthResult{
		User:   model.User{Username: resp.Username, Role: resp.Role},
		Notice: Notice{Message: message, Tone: ToneSuccess},
	}, nil
}

// formMessage はフォーム画面のエラーメッセージを返す。
func formMessage(err error, fallback string) string {
	msg := view.HandleError(err, fallback).Message
	if msg == "" {
		return fallback
	}
	return msg
}
