package model

// Genre labels plays with a category such as Drama or Comedy.  Genre
// names are unique across the catalog.
//
// Fields:
//  ID   – primary key identifier.
//  Name – unique genre name.
type Genre struct {
	ID   uint64 `json:"id"`   // genres.id
	Name string `json:"name"` // genres.name
}

// Actor is a performer that can be attached to any number of plays.
//
// Fields:
//  ID        – primary key identifier.
//  FirstName – given name.
//  LastName  – family name.
type Actor struct {
	ID        uint64 `json:"id"`         // actors.id
	FirstName string `json:"first_name"` // actors.first_name
	LastName  string `json:"last_name"`  // actors.last_name
}

// Play is a stage production in the catalog.  Plays reference genres and
// actors through join tables; GenreIDs and ActorIDs carry those foreign
// keys.  Detail responses resolve the IDs into full Genre and Actor
// records at the handler layer.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – play title.
//  Description – synopsis text.
//  GenreIDs    – referenced genre IDs (play_genres join table).
//  ActorIDs    – referenced actor IDs (play_actors join table).
type Play struct {
	ID          uint64   `json:"id"`          // plays.id
	Title       string   `json:"title"`       // plays.title
	Description string   `json:"description"` // plays.description
	GenreIDs    []uint64 `json:"genres"`      // play_genres.genre_id
	ActorIDs    []uint64 `json:"actors"`      // play_actors.actor_id
}
