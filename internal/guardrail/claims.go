package guardrail

// Known-false travel claims: misplaced landmarks, impossible transport
// modes, impossible distances, wrong event dates. Matched case-insensitively
// as literal substrings; one hit replaces the whole response. The list is
// part of the observable behavior — keep the literals and their order.
var falseTravelClaims = []string{
	// misplaced landmarks
	"statue of liberty in chicago",
	"eiffel tower in london",
	"eiffel tower in berlin",
	"big ben in paris",
	"golden gate bridge in los angeles",
	"great wall of china in japan",
	"colosseum in venice",
	"taj mahal in delhi",
	"mount everest in the alps",
	"grand canyon in texas",
	"niagara falls in california",
	"sydney opera house in melbourne",
	"pyramids of giza in morocco",
	"machu picchu in brazil",
	"stonehenge in scotland",
	"louvre in rome",
	"times square in boston",
	"hollywood sign in new york",
	// impossible transport modes
	"drive from new york to london",
	"drive from california to hawaii",
	"drive from miami to cuba",
	"train from london to new york",
	"walk from alaska to russia",
	"ferry from denver",
	"subway to hawaii",
	"highway to antarctica",
	// impossible distances and durations
	"flight from paris to london takes ten hours",
	"new york to los angeles is 500 miles",
	"london to paris is 2000 miles",
	"tokyo to osaka is 50 miles",
	// wrong event dates
	"oktoberfest in december",
	"mardi gras in july",
	"running of the bulls in iceland",
}
