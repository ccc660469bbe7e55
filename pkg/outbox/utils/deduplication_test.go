package utils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/outbox/utils"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/testsuite"
)

type DeduplicationSuite struct {
	testsuite.BaseSuite
}

func TestDeduplicationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration suite in short mode")
	}

	suite.Run(t, new(DeduplicationSuite))
}

func (s *DeduplicationSuite) SetupSuite() {
	s.SetupInfrastructure("../../../migrations")
}

func (s *DeduplicationSuite) TearDownSuite() {
	s.TearDownInfrastructure()
}

func (s *DeduplicationSuite) SetupTest() {
	s.TruncateTable("processed_events")
}

func (s *DeduplicationSuite) TestActionRunsOncePerEventID() {
	logger := zap.NewNop()

	calls := 0
	action := func() error {
		calls++
		return nil
	}

	err := utils.ProcessWithDeduplication(s.Ctx, s.DbPool, logger, 100, action)
	s.Require().NoError(err)
	s.Require().Equal(1, calls)

	// redelivery of the same event id is a no-op
	err = utils.ProcessWithDeduplication(s.Ctx, s.DbPool, logger, 100, action)
	s.Require().NoError(err)
	s.Require().Equal(1, calls)

	err = utils.ProcessWithDeduplication(s.Ctx, s.DbPool, logger, 101, action)
	s.Require().NoError(err)
	s.Require().Equal(2, calls)
}

func (s *DeduplicationSuite) TestFailedActionLeavesEventUnprocessed() {
	logger := zap.NewNop()

	calls := 0
	err := utils.ProcessWithDeduplication(s.Ctx, s.DbPool, logger, 200, func() error {
		calls++
		return errors.New("smtp down")
	})
	s.Require().Error(err)
	s.Require().Equal(3, calls)

	// the marker insert rolled back, so a retry delivery runs the action again
	err = utils.ProcessWithDeduplication(s.Ctx, s.DbPool, logger, 200, func() error {
		calls++
		return nil
	})
	s.Require().NoError(err)
	s.Require().Equal(4, calls)
}
