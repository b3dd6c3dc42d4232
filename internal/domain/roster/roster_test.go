package roster_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/breakside/internal/domain/model"
	"github.com/okian/breakside/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRosterValidation(t *testing.T) {
	Convey("Given a list of players", t, func() {
		players := []model.Player{
			{ID: "p1", Name: "Ada", Jersey: 7, GenderMatch: "fmp"},
			{ID: "p2", Name: "Sam", Jersey: 13, GenderMatch: "mmp"},
		}

		Convey("When the list is valid", func() {
			r, err := roster.New(players)

			Convey("Then the roster is built and queryable", func() {
				So(err, ShouldBeNil)
				So(r.Len(), ShouldEqual, 2)

				p, err := r.Lookup("Ada")
				So(err, ShouldBeNil)
				So(p.Jersey, ShouldEqual, 7)
			})

			Convey("And unknown names are reported", func() {
				_, err := r.Lookup("Ghost")
				So(errors.Is(err, roster.ErrPlayerNotFound), ShouldBeTrue)
			})

			Convey("And Players returns an independent copy", func() {
				list := r.Players()
				list[0].Name = "Changed"
				p, err := r.Lookup("Ada")
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "Ada")
			})
		})

		Convey("When a name is empty", func() {
			_, err := roster.New(append(players, model.Player{ID: "p3", Jersey: 1}))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, roster.ErrInvalidPlayer), ShouldBeTrue)
			})
		})

		Convey("When a name shadows the opponent sentinel", func() {
			_, err := roster.New(append(players, model.Player{ID: "p3", Name: model.Opponent, Jersey: 1}))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, roster.ErrInvalidPlayer), ShouldBeTrue)
			})
		})

		Convey("When names repeat", func() {
			_, err := roster.New(append(players, model.Player{ID: "p3", Name: "Ada", Jersey: 1}))

			Convey("Then the duplicate is rejected", func() {
				So(errors.Is(err, roster.ErrDuplicate), ShouldBeTrue)
			})
		})

		Convey("When jersey numbers repeat", func() {
			_, err := roster.New(append(players, model.Player{ID: "p3", Name: "Kai", Jersey: 7}))

			Convey("Then the duplicate is rejected", func() {
				So(errors.Is(err, roster.ErrDuplicate), ShouldBeTrue)
			})
		})
	})
}

func TestRosterLoad(t *testing.T) {
	Convey("Given a roster YAML file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "roster.yaml")
		yaml := `players:
  - id: p1
    name: Ada
    jersey: 7
    gender_match: fmp
  - id: p2
    name: Sam
    jersey: 13
    gender_match: mmp
`
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			r, err := roster.Load(path)

			Convey("Then the players come through typed", func() {
				So(err, ShouldBeNil)
				So(r.Len(), ShouldEqual, 2)
				p, err := r.Lookup("Sam")
				So(err, ShouldBeNil)
				So(p.Jersey, ShouldEqual, 13)
				So(p.GenderMatch, ShouldEqual, "mmp")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := roster.Load(filepath.Join(dir, "missing.yaml"))

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the file fails validation", func() {
			bad := filepath.Join(dir, "bad.yaml")
			So(os.WriteFile(bad, []byte("players:\n  - id: p1\n    jersey: 1\n"), 0o600), ShouldBeNil)
			_, err := roster.Load(bad)

			Convey("Then the validation error surfaces", func() {
				So(errors.Is(err, roster.ErrInvalidPlayer), ShouldBeTrue)
			})
		})
	})
}
