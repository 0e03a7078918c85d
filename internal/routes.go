package internal

import (
	"net/http"
	"valeod/internal/controllers"
	"valeod/internal/providers"
)

func InitRoutes(chatController *controllers.ChatController, reportController *controllers.ReportController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/link", http.HandlerFunc(chatController.Link))
	routers.Post("/unlink", http.HandlerFunc(chatController.Unlink))
	routers.Get("/models", http.HandlerFunc(chatController.GetModels))
	routers.Any("/config", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			chatController.SetConfig(w, r)
		case http.MethodGet:
			chatController.GetConfig(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}))
	routers.Get("/revenue/today", http.HandlerFunc(reportController.Today))
	routers.Get("/revenue/yesterday", http.HandlerFunc(reportController.Yesterday))
	routers.Get("/revenue/week", http.HandlerFunc(reportController.Week))
	return routers
}
