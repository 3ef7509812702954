package entity

import (
	"github.com/byxorna/shipwright/pkg/draft"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
)

// ProductCategories are the category slugs the catalog ships with
var ProductCategories = []string{"sailboats", "motorboats", "tenders", "accessories"}

var Products = Kind[v1.Product]{
	Name:          "products",
	Title:         "Products",
	Endpoint:      "/api/products",
	FilterField:   "category",
	FilterChoices: ProductCategories,
	SortKeys:      []string{"-createdAt", "name", "price", "-price"},
	Schema: draft.Schema{
		Empty: func() v1.Fields {
			return v1.Fields{
				"name": "", "slug": "", "category": "", "price": 0.0,
				"status": string(v1.StatusDraft), "summary": "", "description": "",
				"tags": []string{}, "specs": []any{}, "images": []v1.Image{},
			}
		},
		Editable:    []string{"name", "slug", "category", "price", "status", "summary", "description", "tags"},
		Required:    []string{"name", "slug", "category"},
		ReadOnly:    readOnly,
		SlugField:   "slug",
		SlugSource:  "name",
		TagFields:   []string{"tags"},
		Numbers:     []string{"price"},
		Choices:     map[string][]string{"status": statuses(v1.PublishStatuses), "category": ProductCategories},
		ImageField:  "images",
		ImageList:   true,
		Attachments: true,
	},
}

var Categories = Kind[v1.Category]{
	Name:          "categories",
	Title:         "Categories",
	Endpoint:      "/api/categories",
	FilterField:   "status",
	FilterChoices: statuses(v1.PublishStatuses),
	SortKeys:      []string{"name", "-name"},
	Schema: draft.Schema{
		Empty: func() v1.Fields {
			return v1.Fields{"name": "", "slug": "", "description": "", "status": string(v1.StatusDraft)}
		},
		Editable:   []string{"name", "slug", "description", "status"},
		Required:   []string{"name", "slug"},
		ReadOnly:   readOnly,
		SlugField:  "slug",
		SlugSource: "name",
		Choices:    map[string][]string{"status": statuses(v1.PublishStatuses)},
	},
}

var Posts = Kind[v1.Post]{
	Name:          "posts",
	Title:         "Blog",
	Endpoint:      "/api/posts",
	FilterField:   "status",
	FilterChoices: statuses(v1.PublishStatuses),
	SortKeys:      []string{"-publishedAt", "title"},
	Schema: draft.Schema{
		Empty: func() v1.Fields {
			return v1.Fields{
				"title": "", "slug": "", "excerpt": "", "body": "", "cover": "",
				"author": "", "tags": []string{}, "status": string(v1.StatusDraft),
			}
		},
		Editable:   []string{"title", "slug", "excerpt", "author", "tags", "status", "body"},
		Required:   []string{"title", "slug", "body"},
		ReadOnly:   append([]string{"publishedAt"}, readOnly...),
		SlugField:  "slug",
		SlugSource: "title",
		TagFields:  []string{"tags"},
		Choices:    map[string][]string{"status": statuses(v1.PublishStatuses)},
		ImageField: "cover",
	},
	Markdown: func(p v1.Post) string { return p.Markdown() },
}

var CaseStudies = Kind[v1.CaseStudy]{
	Name:          "cases",
	Title:         "Case studies",
	Endpoint:      "/api/case-studies",
	FilterField:   "status",
	FilterChoices: statuses(v1.PublishStatuses),
	SortKeys:      []string{"title", "-title", "client"},
	Schema: draft.Schema{
		Empty: func() v1.Fields {
			return v1.Fields{
				"title": "", "slug": "", "client": "", "summary": "", "body": "",
				"tags": []string{}, "images": []v1.Image{}, "status": string(v1.StatusDraft),
			}
		},
		Editable:    []string{"title", "slug", "client", "summary", "tags", "status", "body"},
		Required:    []string{"title", "slug"},
		ReadOnly:    readOnly,
		SlugField:   "slug",
		SlugSource:  "title",
		TagFields:   []string{"tags"},
		Choices:     map[string][]string{"status": statuses(v1.PublishStatuses)},
		ImageField:  "images",
		ImageList:   true,
		Attachments: true,
	},
	Markdown: func(c v1.CaseStudy) string { return c.Markdown() },
}

var Leads = Kind[v1.Lead]{
	Name:          "leads",
	Title:         "Leads",
	Endpoint:      "/api/leads",
	FilterField:   "status",
	FilterChoices: statuses(v1.LeadStatuses),
	SortKeys:      []string{"-createdAt", "name", "company"},
	Schema: draft.Schema{
		Empty: func() v1.Fields {
			return v1.Fields{
				"name": "", "email": "", "phone": "", "company": "", "source": "",
				"message": "", "status": string(v1.StatusNew),
			}
		},
		Editable: []string{"name", "email", "phone", "company", "source", "status", "message"},
		Required: []string{"name", "email"},
		ReadOnly: readOnly,
		Emails:   []string{"email"},
		Choices:  map[string][]string{"status": statuses(v1.LeadStatuses)},
	},
}

var Inquiries = Kind[v1.Inquiry]{
	Name:          "inquiries",
	Title:         "Inquiries",
	Endpoint:      "/api/inquiries",
	FilterField:   "status",
	FilterChoices: statuses(v1.InquiryStatuses),
	SortKeys:      []string{"-createdAt", "name"},
	Schema: draft.Schema{
		Empty: func() v1.Fields {
			return v1.Fields{
				"name": "", "email": "", "subject": "", "product": "",
				"message": "", "status": string(v1.StatusNew),
			}
		},
		Editable: []string{"name", "email", "subject", "product", "status", "message"},
		Required: []string{"name", "email", "message"},
		ReadOnly: readOnly,
		Emails:   []string{"email"},
		Choices:  map[string][]string{"status": statuses(v1.InquiryStatuses)},
	},
}

var MediaLibrary = Kind[v1.Media]{
	Name:          "media",
	Title:         "Media",
	Endpoint:      "/api/media",
	FilterField:   "format",
	FilterChoices: []string{"jpg", "png", "webp", "gif"},
	SortKeys:      []string{"-createdAt", "filename"},
	Schema: draft.Schema{
		Empty: func() v1.Fields {
			return v1.Fields{"url": "", "publicId": "", "filename": "", "alt": ""}
		},
		Editable:     []string{"filename", "alt", "url"},
		Required:     []string{"url"},
		ReadOnly:     append([]string{"width", "height", "format"}, readOnly...),
		ImageField:   "url",
		ImageIDField: "publicId",
	},
}

var Users = Kind[v1.User]{
	Name:          "users",
	Title:         "Users",
	Endpoint:      "/api/users",
	FilterField:   "role",
	FilterChoices: []string{string(v1.RoleAdmin), string(v1.RoleEditor), string(v1.RoleViewer)},
	SortKeys:      []string{"name", "email"},
	Schema: draft.Schema{
		Empty: func() v1.Fields {
			return v1.Fields{
				"name": "", "email": "", "role": string(v1.RoleViewer),
				"status": string(v1.StatusDisabled), "avatar": "",
			}
		},
		Editable: []string{"name", "email", "role", "status", "avatar"},
		Required: []string{"name", "email", "role"},
		ReadOnly: readOnly,
		Emails:   []string{"email"},
		Choices: map[string][]string{
			"role":   {string(v1.RoleAdmin), string(v1.RoleEditor), string(v1.RoleViewer)},
			"status": statuses(v1.UserStatuses),
		},
		ImageField: "avatar",
	},
}

var Settings = Kind[v1.Setting]{
	Name:          "settings",
	Title:         "Settings",
	Endpoint:      "/api/settings",
	FilterField:   "group",
	FilterChoices: []string{"general", "contact", "social", "seo"},
	SortKeys:      []string{"key", "group"},
	Schema: draft.Schema{
		Empty: func() v1.Fields {
			return v1.Fields{"key": "", "value": "", "group": "general"}
		},
		Editable: []string{"key", "value", "group"},
		Required: []string{"key"},
		ReadOnly: readOnly,
	},
}

// Names lists every section in the order the admin shows them
var Names = []string{
	Products.Name, Categories.Name, Posts.Name, CaseStudies.Name,
	Leads.Name, Inquiries.Name, MediaLibrary.Name, Users.Name, Settings.Name,
}

// Lookup returns the descriptor of the section called name
func Lookup(name string) (Descriptor, bool) {
	for _, d := range []Descriptor{Products, Categories, Posts, CaseStudies, Leads, Inquiries, MediaLibrary, Users, Settings} {
		if d.Key() == name {
			return d, true
		}
	}
	return nil, false
}
