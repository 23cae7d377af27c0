package inference

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseScore(t *testing.T) {
	Convey("Given raw model replies", t, func() {
		Convey("A bare number parses", func() {
			v, err := parseScore("0.73")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0.73)
		})

		Convey("Whitespace and markdown noise are tolerated", func() {
			v, err := parseScore("  `0.4`\n")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0.4)
		})

		Convey("A trailing explanation is ignored", func() {
			v, err := parseScore("0.9 strong overlap with stated values")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0.9)
		})

		Convey("Out-of-range values are clamped", func() {
			v, err := parseScore("1.8")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1.0)

			v, err = parseScore("-0.2")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0.0)
		})

		Convey("Garbage fails with ErrBadScore", func() {
			_, err := parseScore("no idea")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unparseable")

			_, err = parseScore("")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestBuildScorePrompt(t *testing.T) {
	Convey("Given the two inference features", t, func() {
		Convey("The culture prompt mentions culture", func() {
			p := buildScorePrompt(FeatureCulture, "payload")
			So(p, ShouldContainSubstring, "company culture")
			So(p, ShouldContainSubstring, "payload")
		})

		Convey("The personality prompt asks for a single number", func() {
			p := buildScorePrompt(FeaturePersonality, "payload")
			So(p, ShouldContainSubstring, "single decimal number")
		})
	})
}
