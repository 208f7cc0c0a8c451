package service

import (
	"github.com/gin-gonic/gin"

	"github.com/breeew/peer-api/cmd/service/handler"
	"github.com/breeew/peer-api/cmd/service/middleware"
	"github.com/breeew/peer-api/internal/core"
	v1 "github.com/breeew/peer-api/internal/logic/v1"
	"github.com/breeew/peer-api/internal/response"
)

func serve(core *core.Core) error {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: gin.New(),
	}
	setupHttpRouter(httpSrv)

	return httpSrv.Engine.Run(core.Cfg().Addr)
}

func GetUserLimitBuilder(core *core.Core) func(key string) gin.HandlerFunc {
	return func(key string) gin.HandlerFunc {
		return middleware.UseLimit(core, key, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.UserIDStr()
		})
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.Use(gin.Recovery())
	s.Engine.Use(middleware.Metrics(s.Core))
	s.Engine.Use(middleware.I18n(s.Core), middleware.AcceptLanguage(), response.NewResponse())
	s.Engine.Use(middleware.Cors)

	s.Engine.GET("/metrics", gin.WrapH(s.Core.Metrics().Handler()))

	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.GET("/mode", func(c *gin.Context) {
			if s.Core.Plugins == nil {
				response.APISuccess(c, "")
				return
			}
			response.APISuccess(c, s.Core.Plugins.Name())
		})

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization())

		workspace := authed.Group("/workspace/:id")
		{
			workspace.GET("/assignments", s.ListAssignments)

			journal := workspace.Group("/journal")
			{
				journal.GET("", s.ListJournalAssignments)
				journal.POST("", userLimit("modify_journal"), s.CreateJournalAssignments)
				journal.DELETE("", s.DeleteJournalAssignments)
				journal.GET("/weeks", s.ClassifyJournalWeeks)
			}
		}

		assignment := authed.Group("/assignment")
		{
			assignment.POST("", userLimit("modify_assignment"), s.CreateAssignment)
			assignment.GET("/:id", s.GetAssignment)
			assignment.PUT("/:id", userLimit("modify_assignment"), s.EditAssignment)
			assignment.DELETE("/:id", s.DeleteAssignment)
			assignment.POST("/:id/activate", s.ActivateAssignment)

			reviews := assignment.Group("/:id/reviews")
			{
				reviews.GET("", s.ListMyReviews)
				reviews.POST("", s.GenerateReviews)
				reviews.GET("/target/:userid", s.ListTargetReviews)
			}

			analytics := assignment.Group("/:id/analytics")
			{
				analytics.GET("/averages", s.RankedAverages)
				analytics.GET("/completion", s.RankedCompletion)
				analytics.PUT("/user/:userid", s.RecomputeAnalytics)
			}
		}

		review := authed.Group("/review")
		{
			review.GET("/:id", s.GetReview)
			review.PUT("/:id", userLimit("submit_review"), s.SubmitReview)
		}

		journal := authed.Group("/journal")
		{
			journal.GET("/windows", s.PreviewJournalWindows)
			journal.PUT("/:id/entry", userLimit("submit_journal"), s.SubmitJournalEntry)
			journal.GET("/:id/entry", s.GetJournalEntry)
		}
	}
}
