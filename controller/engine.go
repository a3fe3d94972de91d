package controller

import "mentora-backend/service/mentor"

var engine *mentor.Engine

// Init 注入会话编排引擎，在路由注册前调用一次
func Init(e *mentor.Engine) {
	engine = e
}
