package seed

import (
	"github.com/SAITARUN432/backendblog/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds fake service inputs.
type Factory struct {
	faker *gofakeit.Faker
}

func NewFactory(faker *gofakeit.Faker) *Factory {
	return &Factory{faker: faker}
}

func (f *Factory) Blog() service.CreateBlogInput {
	return service.CreateBlogInput{
		AuthorName: f.faker.Name(),
		Body:       f.faker.Paragraph(1, 3, 12, "\n"),
	}
}

func (f *Factory) Comment(blogID string) service.AddCommentInput {
	return service.AddCommentInput{
		BlogID: blogID,
		Author: f.faker.Username(),
		Text:   f.faker.Sentence(8),
	}
}

// UserID returns a fresh opaque liker id.
func (f *Factory) UserID() string {
	return f.faker.UUID()
}

// Upto returns a count in [0, n].
func (f *Factory) Upto(n int) int {
	if n <= 0 {
		return 0
	}
	return f.faker.Number(0, n)
}
