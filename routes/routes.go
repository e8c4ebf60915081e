package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"talentclub/auth"
	"talentclub/booking"
	"talentclub/lessons"
	"talentclub/middleware"
	"talentclub/ratelim"
	"talentclub/receipts"
	"talentclub/search"
	"talentclub/utils"

	"github.com/julienschmidt/httprouter"
)

func AddLessonRoutes(router *httprouter.Router, h *lessons.Handlers, rl *ratelim.RateLimiter) {
	router.GET("/api/lessons", h.GetLessons)
	router.GET("/api/lessons/:id", h.GetLesson)
	router.POST("/api/lessons", rl.Limit(middleware.Authenticate(h.AddLesson)))
	router.PUT("/api/lessons/:id", rl.Limit(middleware.Authenticate(h.UpdateLesson)))
}

func AddOrderRoutes(router *httprouter.Router, h *booking.Handlers, rc *receipts.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(h.PlaceOrder))
	router.GET("/api/orders", middleware.Authenticate(h.ListOrders))
	router.GET("/api/orders/:accountId/receipt", middleware.Authenticate(rc.PrintReceipt))
	router.GET("/ws/lessons/:id", booking.HandleWS)
}

func AddSearchRoutes(router *httprouter.Router, h *search.Handlers) {
	router.GET("/api/search", h.Search)
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
}

// AddStaticRoutes serves lesson images. A missing file answers with the JSON
// 404 the frontend expects instead of the default plain-text one.
func AddStaticRoutes(router *httprouter.Router) {
	dir := os.Getenv("IMAGE_DIR")
	if dir == "" {
		dir = "images"
	}
	router.GET("/images/*filepath", serveImages(dir))
}

func serveImages(dir string) httprouter.Handle {
	root := http.Dir(dir)
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		name := ps.ByName("filepath")
		f, err := root.Open(name)
		if err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Image not found")
			return
		}
		defer f.Close()

		stat, err := f.Stat()
		if err != nil || stat.IsDir() {
			utils.RespondWithError(w, http.StatusNotFound, "Image not found")
			return
		}
		http.ServeContent(w, r, filepath.Base(name), stat.ModTime(), f)
	}
}
