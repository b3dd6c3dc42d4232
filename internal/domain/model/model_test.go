package model_test

import (
	"testing"

	model "github.com/okian/breakside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEventTypePredicates(t *testing.T) {
	Convey("Given the event type union", t, func() {
		Convey("Only scores end a point", func() {
			So(model.EventScore.Terminal(), ShouldBeTrue)
			So(model.EventOpponentScore.Terminal(), ShouldBeTrue)

			So(model.EventPickup.Terminal(), ShouldBeFalse)
			So(model.EventCompletion.Terminal(), ShouldBeFalse)
			So(model.EventTurnover.Terminal(), ShouldBeFalse)
			So(model.EventBlock.Terminal(), ShouldBeFalse)
			So(model.EventOpponentTurnover.Terminal(), ShouldBeFalse)
		})

		Convey("Completions and scores count as catches", func() {
			So(model.EventCompletion.Catch(), ShouldBeTrue)
			So(model.EventScore.Catch(), ShouldBeTrue)

			So(model.EventPickup.Catch(), ShouldBeFalse)
			So(model.EventTurnover.Catch(), ShouldBeFalse)
			So(model.EventBlock.Catch(), ShouldBeFalse)
		})

		Convey("The synthetic opponent never collides with a roster name", func() {
			So(model.Opponent, ShouldEqual, "Opponent")
		})
	})
}
