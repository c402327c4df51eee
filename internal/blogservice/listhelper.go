package blogservice

// Dummy always returns 1.
func Dummy(blogs []Blog) int {
	return 1
}

// TotalLikes sums the likes of blogs.
func TotalLikes(blogs []Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the most likes. The first of several equal maxima
// wins, and a blog without likes is never the favorite; ok is false when nothing
// qualifies.
func FavoriteBlog(blogs []Blog) (fav BlogSummary, ok bool) {
	for _, b := range blogs {
		if b.Likes > fav.Likes {
			fav = BlogSummary{Title: b.Title, Author: b.Author, Likes: b.Likes}
			ok = true
		}
	}
	return fav, ok
}
