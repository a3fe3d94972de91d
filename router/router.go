package router

import (
	"mentora-backend/controller"
	"mentora-backend/middleware"

	"github.com/gin-gonic/gin"
)

func Register() *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		public := api.Group("/user")
		{
			public.POST("/register", controller.UserRegister)
			public.POST("/login", controller.UserLogin)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/session", controller.StartSession)
			protected.GET("/chats", controller.GetChats)
			protected.GET("/chat/messages", controller.GetChatMessages)

			protected.POST("/chat", controller.Chat)

			protected.POST("/topic-prompts", controller.TopicPrompts)
		}
	}

	return r
}
