package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/pkg/errors"

	"women-safety/internal/alarm"
	"women-safety/internal/config"
	"women-safety/internal/controllers"
	"women-safety/internal/geocode"
	"women-safety/internal/logger"
	"women-safety/internal/services"
	"women-safety/internal/shutdown"
	"women-safety/internal/store"
	"women-safety/internal/tracking"
	"women-safety/internal/views"
)

const (
	AppName    = "Women Safety App"
	AppID      = "org.womensafety.app"
	AppVersion = "1.0.0"
)

// Application wires the store, services, controller and view together
type Application struct {
	// Core components
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	logFile io.Closer

	// MVC Components
	controller *controllers.MainController
	view       *views.MainView

	// Lifecycle management
	shutdown *shutdown.Manager
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	application, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	application.Run()
	log.Println("Application terminated successfully")
}

// NewApplication creates and initializes the application using dependency injection
func NewApplication(cfg config.Config) (*Application, error) {
	appLogger, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	shutdownManager := shutdown.NewManager(appLogger)
	ctx := shutdownManager.Context()

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":           AppVersion,
		"go_version":        runtime.Version(),
		"db_driver":         cfg.DBDriver,
		"tracking_interval": cfg.TrackingInterval.String(),
		"log_level":         cfg.LogLevel.String(),
	})

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	db, err := store.Open(openCtx, store.Dialect(cfg.DBDriver), cfg.DBDSN, appLogger)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	shutdownManager.Register("store", db)

	geocoder := geocode.NewClient(geocode.Options{
		BaseURL:    cfg.GeocoderURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.GeocodeTimeout,
		RetryCount: cfg.GeocodeRetries,
	}, appLogger)
	locator := geocode.NewPlaceholderLocator(geocoder, cfg.LocationQuery)

	player := alarm.NewWavPlayer(cfg.AlarmSound, appLogger)
	shutdownManager.Register("alarm", player)

	// Services
	contactService := services.NewContactService(db, appLogger)
	locationService := services.NewSafeLocationService(db, geocoder, appLogger)
	emergencyService := services.NewEmergencyService(db, locator, player, nil, locationService, appLogger)
	emergencyService.SetLocationTimeout(cfg.GeocodeTimeout * time.Duration(cfg.GeocodeRetries+1))
	logService := services.NewLogService(db, cfg.LogLimit)

	tracker := tracking.NewTracker(locator, db, cfg.TrackingInterval, appLogger)
	shutdownManager.Register("tracker", tracker)

	// Fyne application and main window
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(420, 560))
	window.CenterOnScreen()
	window.SetMaster()

	// Wire MVC components together
	mainController := controllers.NewMainController(ctx,
		contactService, locationService, emergencyService, logService, tracker, appLogger)
	mainView := views.NewMainView(fyneApp, window)
	mainController.SetMainView(mainView)
	shutdownManager.Register("controller", shutdown.Func(mainController.Shutdown))

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		logFile:    logFile,
		controller: mainController,
		view:       mainView,
		shutdown:   shutdownManager,
	}
	application.setupWindowEvents()

	appLogger.Info("Application", "initialized", map[string]interface{}{
		"components": []string{"store", "geocoder", "alarm", "tracker", "controller", "views"},
	})
	return application, nil
}

func newLogger(cfg config.Config) (logger.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return logger.NewConsoleLogger(cfg.LogLevel), nil, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log file %s", cfg.LogFile)
	}
	return logger.NewFileLogger(cfg.LogLevel, f), f, nil
}

// Run shows the main window and blocks until the UI exits
func (a *Application) Run() {
	a.shutdown.Listen()

	go func() {
		<-a.shutdown.Done()
		fyne.Do(a.fyneApp.Quit)
	}()

	a.window.Show()
	a.fyneApp.Run()

	a.shutdown.Shutdown()
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// setupWindowEvents asks for confirmation before closing the main window
func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)

		a.view.ShowConfirm("Exit Application", "Are you sure you want to exit?", func(confirmed bool) {
			if !confirmed {
				return
			}
			go a.shutdown.Shutdown()
		})
	})

	a.window.SetOnClosed(func() {
		a.logger.Info("Application", fmt.Sprintf("%s window closed", AppName), nil)
	})
}
