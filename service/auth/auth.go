package auth

import (
	"errors"
	"fmt"

	"mentora-backend/dao"
	"mentora-backend/model"
	"mentora-backend/request"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid user id or password")

func UserRegister(req request.UserRegisterRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &model.User{
		UserID:   req.UserID,
		Name:     req.Name,
		Password: string(hash),
		Email:    req.Email,
		Firm:     req.Firm,
		Unit:     req.Unit,
		Location: req.Location,
	}
	if err := dao.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func UserLogin(req request.UserLoginRequest) (*model.User, error) {
	user, err := dao.GetUserByUserID(req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
