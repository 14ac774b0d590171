package extract

import (
	"time"

	"github.com/ppiankov/tweetlens/internal/model"
)

var (
	d1 = time.Date(2016, 2, 17, 10, 0, 0, 0, time.UTC)
	d2 = time.Date(2016, 2, 17, 11, 0, 0, 0, time.UTC)
	d3 = time.Date(2016, 2, 17, 12, 0, 0, 0, time.UTC)

	tweet1 = model.NewTweet(1, "alyssa", "is it reasonable to talk about rivest so much?", d1)
	tweet2 = model.NewTweet(2, "bbitdiddle", "rivest talk in 30 minutes #hype", d2)
	tweet3 = model.NewTweet(3, "charlie", "hey @Alice let's meet", d3)
	tweet4 = model.NewTweet(4, "dave", "@Bob what do you think?", d1)
	tweet5 = model.NewTweet(5, "eve", "email me at bob@mit.edu", d2)
	tweet6 = model.NewTweet(6, "frank", "shoutout to @alice and @BOB!", d3)
	tweet7 = model.NewTweet(7, "grace", "multiple @bob @charlie mentions", d1)
)
