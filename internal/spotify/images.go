package spotify

// PickImage selects a thumbnail URL from a list of image variants ordered
// by decreasing resolution: the second entry when the list has at least
// two (a mid-resolution variant), otherwise the first, otherwise nil.
func PickImage(images []Image) *string {
	var url string
	switch {
	case len(images) >= 2:
		url = images[1].URL
	case len(images) == 1:
		url = images[0].URL
	default:
		return nil
	}
	return &url
}
