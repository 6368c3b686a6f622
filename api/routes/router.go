package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/otoservis/otoservis-backend/api/controllers"
	"github.com/otoservis/otoservis-backend/api/middleware"
	"github.com/otoservis/otoservis-backend/internal/auth"
	"github.com/otoservis/otoservis-backend/internal/customers"
	"github.com/otoservis/otoservis-backend/internal/inventory"
	"github.com/otoservis/otoservis-backend/internal/memberships"
	"github.com/otoservis/otoservis-backend/internal/notifications"
	"github.com/otoservis/otoservis-backend/internal/reports"
	"github.com/otoservis/otoservis-backend/internal/tirehotel"
	"github.com/otoservis/otoservis-backend/internal/users"
	"github.com/otoservis/otoservis-backend/internal/workorders"
	"github.com/otoservis/otoservis-backend/pkg/auth/session"
	"github.com/otoservis/otoservis-backend/pkg/config"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	"github.com/otoservis/otoservis-backend/pkg/logger"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	SessionManager sessionManager

	AuthService   auth.Service
	SwitchService auth.SwitchBranchService

	CustomersService     customers.Service
	InventoryService     inventory.Service
	WorkOrdersService    workorders.Service
	TireHotelService     tirehotel.Service
	ReportsService       reports.Service
	NotificationsService notifications.Service

	UsersRepo       *users.Repository
	MembershipsRepo *memberships.Repository

	// MembershipChecker backs the role middleware. Defaults to MembershipsRepo.
	MembershipChecker middleware.MembershipChecker
}

// NewRouter builds the /api/v1 tree. Staff endpoints require an admin-rank
// membership in the active branch, shop-floor endpoints a worker-rank one;
// superusers pass both checks.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	checker := deps.MembershipChecker
	if checker == nil && deps.MembershipsRepo != nil {
		checker = deps.MembershipsRepo
	}

	r := chi.NewRouter()
	r.Use(
		middleware.CORS(),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg.JWT, logg))
		r.Post("/switch-branch", controllers.AuthSwitchBranch(deps.SwitchService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		// superuser administration does not need an active branch
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSuperuser(logg))
			r.Post("/users", controllers.CreateUser(deps.UsersRepo, cfg.Password, logg))
			r.Get("/users/{userID}", controllers.GetUser(deps.UsersRepo, logg))
			r.Post("/users/{userID}/memberships", controllers.CreateMembership(deps.MembershipsRepo, logg))
			r.Get("/branches", controllers.ListBranches(deps.MembershipsRepo, logg))
		})

		anyRank := middleware.RequireBranchRoles(checker, logg,
			append(append([]enums.MemberRole{}, enums.AdminRanks...), enums.WorkerRanks...)...)
		adminRank := middleware.RequireBranchRoles(checker, logg, enums.AdminRanks...)
		workerRank := middleware.RequireBranchRoles(checker, logg, enums.WorkerRanks...)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BranchContext(logg), anyRank)
			r.Get("/dashboard", controllers.Dashboard(deps.ReportsService, logg))
			r.Get("/plates/search", controllers.SearchPlates(deps.CustomersService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.BranchContext(logg), workerRank)
			r.Get("/workorders/my", controllers.ListMyWorkOrders(deps.WorkOrdersService, logg))
			r.Post("/workorders/my/{orderID}", controllers.WorkerAction(deps.WorkOrdersService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.BranchContext(logg), adminRank)

			r.Route("/workorders", func(r chi.Router) {
				r.Get("/", controllers.ListWorkOrders(deps.WorkOrdersService, logg))
				r.Post("/", controllers.CreateWorkOrder(deps.WorkOrdersService, logg))
				r.Get("/{orderID}", controllers.GetWorkOrder(deps.WorkOrdersService, logg))
				r.Post("/{orderID}/edit", controllers.EditWorkOrder(deps.WorkOrdersService, logg))
				r.Post("/{orderID}/done", controllers.FinishWorkOrder(deps.WorkOrdersService, logg))
				r.Delete("/{orderID}", controllers.DeleteWorkOrder(deps.WorkOrdersService, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Post("/workorders/{orderID}/parts", controllers.AttachPart(deps.WorkOrdersService, logg))
				r.Route("/parts", func(r chi.Router) {
					r.Get("/", controllers.ListParts(deps.InventoryService, logg))
					r.Post("/", controllers.CreatePart(deps.InventoryService, logg))
					r.Get("/search", controllers.SearchParts(deps.InventoryService, logg))
					r.Get("/low-stock", controllers.LowStockParts(deps.InventoryService, logg))
					r.Get("/{partID}", controllers.GetPart(deps.InventoryService, logg))
					r.Post("/{partID}/edit", controllers.EditPart(deps.InventoryService, logg))
					r.Post("/{partID}/stock-in", controllers.StockIn(deps.InventoryService, logg))
				})
			})

			r.Route("/tirehotel", func(r chi.Router) {
				r.Get("/", controllers.ListTireEntries(deps.TireHotelService, logg))
				r.Post("/", controllers.CreateTireEntry(deps.TireHotelService, logg))
				r.Get("/{entryID}", controllers.GetTireEntry(deps.TireHotelService, logg))
				r.Post("/{entryID}/edit", controllers.EditTireEntry(deps.TireHotelService, logg))
				r.Post("/{entryID}/deliver", controllers.DeliverTireEntry(deps.TireHotelService, logg))
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", controllers.ListCustomers(deps.CustomersService, logg))
				r.Post("/", controllers.CreateCustomer(deps.CustomersService, logg))
				r.Get("/{customerID}", controllers.GetCustomer(deps.CustomersService, logg))
				r.Post("/{customerID}/edit", controllers.UpdateCustomer(deps.CustomersService, logg))
				r.Delete("/{customerID}", controllers.DeleteCustomer(deps.CustomersService, logg))
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Post("/", controllers.CreateVehicle(deps.CustomersService, logg))
				r.Post("/{vehicleID}/edit", controllers.UpdateVehicle(deps.CustomersService, logg))
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/revenue", controllers.RevenueReport(deps.ReportsService, logg))
				r.Get("/profit", controllers.ProfitReport(deps.ReportsService, logg))
			})

			r.Get("/notifications", controllers.ListNotifications(deps.NotificationsService, logg))
			r.Get("/branch/users", controllers.ListBranchUsers(deps.MembershipsRepo, logg))
		})
	})

	return r
}
