//go:build integration_test || all_tests

package internal

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/2beens/programtracker/internal/config"
	"github.com/2beens/programtracker/internal/db"
	"github.com/2beens/programtracker/internal/tracker"
	"github.com/2beens/programtracker/internal/workout"

	"github.com/brianvoe/gofakeit/v6"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
)

const (
	suiteServerHost = "127.0.0.1"
	suiteServerPort = 9000
	suiteRateLimit  = 20
)

var suiteEndpoint = fmt.Sprintf("http://%s:%d", suiteServerHost, suiteServerPort)

// ServerSuite runs the whole service against postgres and redis containers.
type ServerSuite struct {
	suite.Suite

	dockerPool *dockertest.Pool
	server     *Server
	client     *http.Client
	teardown   []func()
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupSuite() {
	ctx := context.Background()

	var err error
	s.dockerPool, err = dockertest.NewPool("")
	s.Require().NoError(err)
	s.Require().NoError(s.dockerPool.Client.Ping())
	s.dockerPool.MaxWait = time.Minute

	redisPort, err := s.redisSetup()
	if err != nil {
		s.cleanup()
		s.FailNow("setup redis", err.Error())
	}

	pgPort, err := s.postgresSetup()
	if err != nil {
		s.cleanup()
		s.FailNow("setup postgres", err.Error())
	}

	s.server, err = NewServer(ctx, NewServerParams{
		Config:      suiteConfig(redisPort, pgPort),
		VersionInfo: "test-version-info",
	})
	if err != nil {
		s.cleanup()
		s.FailNow("new server", err.Error())
	}
	s.server.Serve(suiteServerHost, suiteServerPort)

	s.client = &http.Client{Timeout: 5 * time.Second}
	s.Require().NoError(s.dockerPool.Retry(func() error {
		resp, err := s.client.Get(suiteEndpoint + "/version")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}), "server not ready")
}

func (s *ServerSuite) TearDownSuite() {
	s.cleanup()
}

func (s *ServerSuite) cleanup() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func suiteConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Environment:                "test",
		Host:                       suiteServerHost,
		Port:                       suiteServerPort,
		ProgramPath:                "program/testdata/program.json",
		ExercisesPath:              "program/testdata/exercises.json",
		StoreDriver:                config.StoreDriverPostgres,
		PostgresHost:               "localhost",
		PostgresPort:               postgresPort,
		PostgresDBName:             "programtracker",
		PostgresUser:               "postgres",
		RunMigrations:              true,
		RedisHost:                  "localhost",
		RedisPort:                  redisPort,
		SaveRetryAttempts:          3,
		SaveRetryInitialIntervalMs: 50,
		RateLimitPerMinute:         suiteRateLimit,
		AllowedOrigin:              "*",
	}
}

func (s *ServerSuite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %w", err)
	}
	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			s.T().Logf("redis teardown: %s", err)
		}
	})
	return redisResource.GetPort("6379/tcp"), nil
}

func (s *ServerSuite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "12",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=programtracker",
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %w", err)
	}
	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			s.T().Logf("postgres teardown: %s", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := db.ConnString(db.NewDBPoolParams{
		DBHost: "localhost",
		DBPort: pgPort,
		DBName: "programtracker",
	}) + "?sslmode=disable"

	if err := s.dockerPool.Retry(func() error {
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return sqlDB.Ping()
	}); err != nil {
		return "", fmt.Errorf("connect to db: %w", err)
	}

	return pgPort, nil
}

func (s *ServerSuite) do(method, path string, body any) (int, []byte) {
	var reqBody bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&reqBody).Encode(body))
	}
	req, err := http.NewRequest(method, suiteEndpoint+path, &reqBody)
	s.Require().NoError(err)

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBody
}

func runPathOf(userID string) string {
	return fmt.Sprintf("/users/%s/programs/hybrid-12", userID)
}

func (s *ServerSuite) TestProgressSurvivesSession() {
	run := runPathOf(gofakeit.UUID())

	status, _ := s.do("POST", run+"/enroll", tracker.EnrollRequest{StartDate: "2024-03-04"})
	s.Equal(http.StatusCreated, status)
	status, _ = s.do("POST", run+"/enroll", nil)
	s.Equal(http.StatusOK, status)

	status, _ = s.do("POST", run+"/weeks/0/days/0/exercises/batch", tracker.BatchCompleteRequest{
		ExerciseIDs: []string{"week0-day0-warm-up-arm-circles", "week0-day0-throwing-long-toss"},
		Completed:   true,
	})
	s.Equal(http.StatusAccepted, status)
	status, _ = s.do("PUT", run+"/weeks/0/days/0/notes", tracker.NotesRequest{Notes: "windy"})
	s.Equal(http.StatusAccepted, status)

	// flushes the saves
	status, _ = s.do("DELETE", run+"/session", nil)
	s.Equal(http.StatusNoContent, status)

	status, body := s.do("GET", run+"/weeks/0/days/0", nil)
	s.Require().Equal(http.StatusOK, status)
	var day tracker.DayView
	s.Require().NoError(json.Unmarshal(body, &day))
	s.NotEmpty(day.DayWorkout.ID)
	s.True(day.DayWorkout.Completed["week0-day0-throwing-long-toss"])
	s.Require().NotNil(day.DayWorkout.UserNotes)
	s.Equal("windy", *day.DayWorkout.UserNotes)
	s.Require().NotNil(day.Stats)
	s.Equal(2, day.Stats.CompletedCount)

	status, body = s.do("DELETE", run+"/schedule", nil)
	s.Require().Equal(http.StatusOK, status)
	var sched tracker.ScheduleView
	s.Require().NoError(json.Unmarshal(body, &sched))
	s.Zero(sched.Progress.CompletedExercises)
}

func (s *ServerSuite) TestViewModeIsRemembered() {
	run := runPathOf(gofakeit.UUID())

	status, _ := s.do("POST", run+"/enroll", nil)
	s.Require().Equal(http.StatusCreated, status)
	status, _ = s.do("PUT", run+"/view-mode", tracker.ViewModeRequest{ViewMode: "list"})
	s.Require().Equal(http.StatusOK, status)
	status, _ = s.do("DELETE", run+"/session", nil)
	s.Require().Equal(http.StatusNoContent, status)

	status, body := s.do("GET", run+"/schedule", nil)
	s.Require().Equal(http.StatusOK, status)
	var sched tracker.ScheduleView
	s.Require().NoError(json.Unmarshal(body, &sched))
	s.Equal(workout.ViewModeList, sched.State.ViewMode)
}

func (s *ServerSuite) TestMutationsAreRateLimited() {
	run := runPathOf(gofakeit.UUID())

	status, _ := s.do("POST", run+"/enroll", nil)
	s.Require().Equal(http.StatusCreated, status)

	limited := false
	for i := 0; i < suiteRateLimit+1; i++ {
		status, _ = s.do("PUT", run+"/weeks/0/days/1/notes", tracker.NotesRequest{Notes: fmt.Sprintf("note %d", i)})
		if status == http.StatusTooManyRequests {
			limited = true
			break
		}
		s.Equal(http.StatusAccepted, status)
	}
	s.True(limited)

	// reads are not limited
	status, _ = s.do("GET", run+"/schedule", nil)
	s.Equal(http.StatusOK, status)
}
