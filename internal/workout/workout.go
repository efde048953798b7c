package workout

import (
	"fmt"

	"calisthenics-ai/internal/shared/database"
	"calisthenics-ai/internal/shared/logger"
	workouthttp "calisthenics-ai/internal/workout/adapter/http"
	"calisthenics-ai/internal/workout/adapter/persistence/memory"
	"calisthenics-ai/internal/workout/adapter/persistence/mongodb"
	"calisthenics-ai/internal/workout/adapter/security"
	"calisthenics-ai/internal/workout/config"
	"calisthenics-ai/internal/workout/domain/model"
	"calisthenics-ai/internal/workout/domain/repository"
	"calisthenics-ai/internal/workout/usecase"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the shared resources the workout module builds on.
// Partitions is required for the mongodb driver; Coach may be nil.
type Dependencies struct {
	Partitions *database.PartitionManager
	Coach      usecase.Coach
	Logger     logger.Logger
}

// WorkoutModule represents the workout log, training plan and profile stores
// with the actions and pages built on them.
type WorkoutModule struct {
	logs     repository.Store[model.WorkoutLog]
	plans    repository.Store[model.TrainingPlan]
	profiles *usecase.ProfileService
	workouts *usecase.WorkoutUsecase
	planner  *usecase.PlanUsecase
	handler  *workouthttp.WorkoutHTTPHandler
	rule     *security.PartitionRule
	config   *config.Config
	logger   logger.Logger
}

// NewWorkoutModule creates a new workout module instance
func NewWorkoutModule(cfg *config.Config, deps Dependencies) (*WorkoutModule, error) {
	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.WithComponent("workout")

	rule, err := security.NewPartitionRule(cfg.PartitionRule, log)
	if err != nil {
		return nil, fmt.Errorf("invalid partition rule: %w", err)
	}

	wm := &WorkoutModule{rule: rule, config: cfg, logger: log}
	switch cfg.StoreDriver {
	case config.DriverMongoDB:
		if deps.Partitions == nil {
			return nil, fmt.Errorf("the %s store driver needs a partition manager", cfg.StoreDriver)
		}
		wm.logs = security.Guard[model.WorkoutLog](mongodb.NewStore[model.WorkoutLog](deps.Partitions, mongodb.WorkoutLogsCollection, log), rule)
		wm.plans = security.Guard[model.TrainingPlan](mongodb.NewStore[model.TrainingPlan](deps.Partitions, mongodb.TrainingPlansCollection, log), rule)
		wm.profiles = usecase.NewProfileService(
			security.Guard[model.UserProfile](mongodb.NewStore[model.UserProfile](deps.Partitions, mongodb.ProfilesCollection, log), rule))

	case config.DriverMemory:
		log.Warn("Using the in-memory store, records are lost on restart")
		wm.logs = security.Guard[model.WorkoutLog](memory.NewStore[model.WorkoutLog](), rule)
		wm.plans = security.Guard[model.TrainingPlan](memory.NewStore[model.TrainingPlan](), rule)
		wm.profiles = usecase.NewProfileService(security.Guard[model.UserProfile](memory.NewStore[model.UserProfile](), rule))

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	wm.workouts = usecase.NewWorkoutUsecase(wm.logs, deps.Coach, cfg.SuggestionHistory, log)
	wm.planner = usecase.NewPlanUsecase(wm.plans, wm.logs, deps.Coach, cfg.SuggestionHistory, log)
	wm.handler = workouthttp.NewWorkoutHTTPHandler(wm.workouts, wm.planner, log)

	log.WithFields(map[string]interface{}{
		"driver":         cfg.StoreDriver,
		"partition_rule": rule.Expression(),
	}).Info("Workout module initialized")
	return wm, nil
}

// RegisterRoutes registers the workout pages and actions.
func (wm *WorkoutModule) RegisterRoutes(router fiber.Router, requireSession fiber.Handler) {
	wm.handler.RegisterRoutes(router, requireSession)
}

// Profiles returns the writer used by sign-up to record user profiles.
func (wm *WorkoutModule) Profiles() *usecase.ProfileService {
	return wm.profiles
}

func (wm *WorkoutModule) GetWorkoutUsecase() usecase.WorkoutUsecaseInterface {
	return wm.workouts
}

func (wm *WorkoutModule) GetPlanUsecase() usecase.PlanUsecaseInterface {
	return wm.planner
}

// Stop performs cleanup when the module is shut down
func (wm *WorkoutModule) Stop() error {
	wm.logger.Info("Workout module stopped")
	return nil
}
