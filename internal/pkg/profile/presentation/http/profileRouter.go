package http

import (
	"github.com/gin-gonic/gin"

	"tabangi/internal/pkg/profile/application/usecase"
	"tabangi/internal/pkg/profile/presentation/controller"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// Deps carries the profile use cases built in main.
type Deps struct {
	Get     *usecase.GetProfileUseCase
	Role    *usecase.ChooseRoleUseCase
	Details *usecase.SaveDetailsUseCase
	Vis     *usecase.SetVisibilityUseCase
	List    *usecase.ListCandidatesUseCase
	Upload  *usecase.UploadPhotoUseCase
}

// RegisterRoutes registers profile endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	getCtl := controller.NewGetProfileController(deps.Get)
	roleCtl := controller.NewChooseRoleController(deps.Role)
	detailsCtl := controller.NewSaveDetailsController(deps.Details)
	visCtl := controller.NewSetVisibilityController(deps.Vis)
	uploadCtl := controller.NewUploadPhotoController(deps.Upload)

	// The browse screens are audience-bound: households see housekeeper
	// candidates, housekeepers see household listings.
	householdBrowseCtl := controller.NewListCandidatesController(deps.List, repository.AudienceHouseholds)
	housekeeperBrowseCtl := controller.NewListCandidatesController(deps.List, repository.AudienceHousekeepers)

	// GET /api/v1/me -> the caller's own profile
	g.GET("/me", getCtl.Handle())

	// GET /api/v1/users/:userId -> visit another user's profile
	g.GET("/users/:userId", getCtl.Handle())

	// PUT /api/v1/me/role -> record the chosen role
	g.PUT("/me/role", roleCtl.Handle())

	// PUT /api/v1/me/housekeeper -> replace the housekeeper form section
	g.PUT("/me/housekeeper", detailsCtl.HandleHousekeeper())

	// PUT /api/v1/me/household -> replace the household form section
	g.PUT("/me/household", detailsCtl.HandleHousehold())

	// PUT /api/v1/me/visibility -> flip a browse-screen visibility flag
	g.PUT("/me/visibility", visCtl.Handle())

	// POST /api/v1/me/photo -> upload the profile photo
	g.POST("/me/photo", uploadCtl.Handle())

	// GET /api/v1/housekeepers -> housekeepers browsable by households
	g.GET("/housekeepers", householdBrowseCtl.Handle())

	// GET /api/v1/households -> households browsable by housekeepers
	g.GET("/households", housekeeperBrowseCtl.Handle())
}
