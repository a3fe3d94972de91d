package controller

import "errors"

var (
	ErrParseRequest = errors.New("failed to parse request")

	ErrUserRegister  = errors.New("failed to register user")
	ErrGenerateToken = errors.New("failed to generate token")
	ErrUserLogin     = errors.New("failed to login")

	ErrSavePreferences = errors.New("failed to save user preferences")
	ErrStartSession    = errors.New("failed to start a mentoring session")
	ErrGetChats        = errors.New("failed to get chats")
	ErrGetChatMessages = errors.New("failed to get chat messages")
	ErrSaveChat        = errors.New("failed to save chat")
	ErrLoadChatState   = errors.New("failed to load chat state")
)
