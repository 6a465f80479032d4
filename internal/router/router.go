package router

import (
	"database/sql"
	"net/http"
	"os"
	"strconv"

	mem "med-adherence/internal/adapters/storage/memory"
	pg "med-adherence/internal/adapters/storage/postgres"
	"med-adherence/internal/domain/adherence"
	"med-adherence/internal/domain/appointments"
	"med-adherence/internal/domain/caregivers"
	"med-adherence/internal/domain/doses"
	"med-adherence/internal/domain/history"
	"med-adherence/internal/domain/medications"
	"med-adherence/internal/domain/sideeffects"
	"med-adherence/internal/middleware"
	"med-adherence/internal/platform/logger"
	"med-adherence/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Log logger.Logger

	// Ventanas de recordatorio; zero value => defaults.
	Windows doses.Windows
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		medsRepo   medications.Repository
		adhRepo    adherence.Repository
		histRepo   history.Repository
		apptRepo   appointments.Repository
		seRepo     sideeffects.Repository
		grantsRepo caregivers.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		log.Info("storage backend: postgres", nil)
		medsRepo = pg.NewMedicationsRepo(db)
		adhRepo = pg.NewAdherenceRepo(db)
		histRepo = pg.NewHistoryRepo(db)
		apptRepo = pg.NewAppointmentsRepo(db)
		seRepo = pg.NewSideEffectsRepo(db)
		grantsRepo = pg.NewCaregiversRepo(db)
	} else {
		log.Info("storage backend: memory", nil)
		medsRepo = mem.NewMedicationsRepo()
		adhRepo = mem.NewAdherenceRepo()
		histRepo = mem.NewHistoryRepo()
		apptRepo = mem.NewAppointmentsRepo()
		seRepo = mem.NewSideEffectsRepo()
		grantsRepo = mem.NewCaregiversRepo()
	}

	// Services por módulo. El historial actúa como auditor de las
	// mutaciones de dosis.
	histSvc := history.NewService(histRepo)
	medsSvc := medications.NewService(medsRepo, histSvc)
	adhSvc := adherence.NewService(adhRepo)
	apptSvc := appointments.NewService(apptRepo)
	seSvc := sideeffects.NewService(seRepo)
	grantsSvc := caregivers.NewService(grantsRepo)

	windows := opts.Windows
	if windows.Advance == 0 && windows.DueNow == 0 {
		windows = windowsFromEnv()
	}

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc)
	doses.RegisterRoutes(r, medsSvc, adhSvc, grantsSvc, log, windows)
	adherence.RegisterRoutes(r, adhSvc, grantsSvc)
	history.RegisterRoutes(r, histSvc, grantsSvc)
	appointments.RegisterRoutes(r, apptSvc)
	sideeffects.RegisterRoutes(r, seSvc)
	caregivers.RegisterRoutes(r, grantsSvc)

	return r
}

func windowsFromEnv() doses.Windows {
	w := doses.DefaultWindows()
	if v, err := strconv.Atoi(os.Getenv("REMINDER_ADVANCE_MIN")); err == nil && v > 0 {
		w.Advance = v
	}
	if v, err := strconv.Atoi(os.Getenv("REMINDER_DUE_NOW_MIN")); err == nil && v >= 0 {
		w.DueNow = v
	}
	return w
}
