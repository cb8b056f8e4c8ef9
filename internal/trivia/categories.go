package trivia

// Category is one entry of the Open Trivia DB category catalog.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Categories is the fixed Open Trivia DB catalog. IDs are assigned by the
// provider and stable.
var Categories = []Category{
	{9, "General Knowledge"},
	{10, "Books"},
	{11, "Film"},
	{12, "Music"},
	{13, "Musicals & Theatres"},
	{14, "Television"},
	{15, "Video Games"},
	{16, "Board Games"},
	{17, "Science & Nature"},
	{18, "Computers"},
	{19, "Mathematics"},
	{20, "Mythology"},
	{21, "Sports"},
	{22, "Geography"},
	{23, "History"},
	{24, "Politics"},
	{25, "Art"},
	{26, "Celebrities"},
	{27, "Animals"},
	{28, "Vehicles"},
	{29, "Comics"},
	{30, "Gadgets"},
	{31, "Japanese Anime & Manga"},
	{32, "Cartoon & Animations"},
}

// CategoryByID returns the category for id, falling back to the first
// catalog entry (General Knowledge) for unknown ids.
func CategoryByID(id int) Category {
	for _, c := range Categories {
		if c.ID == id {
			return c
		}
	}
	return Categories[0]
}
