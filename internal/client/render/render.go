package render

import (
	"fmt"
	"io"
	"strings"

	"asteca_portfolio/internal/client/admin"
	"asteca_portfolio/internal/client/catalog"
	"asteca_portfolio/internal/client/contact"
	"asteca_portfolio/internal/domain/models"

	"github.com/fatih/color"
)

const dateLayout = "2006-01-02"

var (
	title   = color.New(color.Bold, color.FgCyan)
	faint   = color.New(color.Faint)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	accent  = color.New(color.FgYellow)
)

func typeIcon(t models.ItemType) string {
	switch t {
	case models.ItemTypeImage:
		return "[img]"
	case models.ItemTypeVideo:
		return "[vid]"
	case models.ItemTypeLink:
		return "[url]"
	}
	return "[?]"
}

func Home(w io.Writer) {
	title.Fprintln(w, "Asteca Portfolio")
	fmt.Fprintln(w, "Design, video and links. Type 'help' for commands.")
}

func Catalog(w io.Writer, s catalog.Snapshot) {
	title.Fprintln(w, "Portfolio")

	switch s.State {
	case catalog.StateLoading:
		faint.Fprintln(w, "Loading...")
		return
	case catalog.StateError:
		failure.Fprintf(w, "Failed to load portfolio: %s\n", s.Error)
		fmt.Fprintln(w, "Type 'retry' to try again.")
		return
	}

	cats := []string{string(catalog.CategoryAll)}
	for _, c := range models.Categories() {
		cats = append(cats, string(c))
	}
	for i, c := range cats {
		if models.Category(c) == s.Category {
			cats[i] = accent.Sprintf("<%s>", c)
		}
	}
	fmt.Fprintf(w, "Categories: %s\n", strings.Join(cats, " "))

	if len(s.Items) == 0 {
		faint.Fprintln(w, "No items in this category.")
		return
	}

	for _, item := range s.Items {
		fmt.Fprintf(w, "%s %s  %s\n", typeIcon(item.Type), item.Title, faint.Sprint(item.ID))
		if item.Description != "" {
			fmt.Fprintf(w, "      %s\n", item.Description)
		}
		tags(w, item.Tags)
	}
	faint.Fprintf(w, "%d of %d items\n", len(s.Items), s.Total)
}

func Preview(w io.Writer, p catalog.Preview) {
	if p.Placeholder {
		faint.Fprintf(w, "%s: preview unavailable, showing placeholder\n", p.Item.Title)
		return
	}
	fmt.Fprintf(w, "%s %s\n", typeIcon(p.Kind), p.Item.Title)
	fmt.Fprintf(w, "  %s\n", p.URL)
}

func Contact(w io.Writer, s contact.Snapshot) {
	title.Fprintln(w, "Contact")

	field := func(name, value string) {
		if value == "" {
			value = faint.Sprint("-")
		}
		fmt.Fprintf(w, "  %-13s %s\n", name+":", value)
	}
	field(contact.FieldName, s.Fields.Name)
	field(contact.FieldEmail, s.Fields.Email)
	field(contact.FieldPhone, s.Fields.Phone)
	field(contact.FieldSubject, s.Fields.Subject)
	field(contact.FieldProjectType, s.Fields.ProjectType)
	field(contact.FieldMessage, s.Fields.Message)

	switch {
	case s.Sending:
		faint.Fprintln(w, "Sending...")
	case s.Error != "":
		failure.Fprintln(w, s.Error)
	case s.Status != "":
		success.Fprintln(w, s.Status)
	}
}

func Admin(w io.Writer, v admin.View) {
	title.Fprintln(w, "Admin")

	if v.Banner != nil {
		banner(w, *v.Banner)
	}

	switch v.State {
	case admin.StateLoading:
		faint.Fprintln(w, "Loading...")
		return
	case admin.StateLoggedOut:
		fmt.Fprintln(w, "Please log in: login <username> <password>")
		if v.LoginError != "" {
			failure.Fprintln(w, v.LoginError)
		}
		return
	}

	if v.User != nil {
		fmt.Fprintf(w, "Logged in as %s\n", accent.Sprint(v.User.Username))
	}
	stats(w, v.Stats)

	tabs := []admin.Tab{admin.TabUpload, admin.TabManage}
	names := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == v.Tab {
			names = append(names, accent.Sprintf("<%s>", t))
			continue
		}
		names = append(names, t.String())
	}
	fmt.Fprintf(w, "Tabs: %s\n", strings.Join(names, " "))

	if v.Tab == admin.TabManage {
		items(w, v.Items)
	} else {
		draft(w, v.Draft, v.Preview)
	}

	if v.Editing != nil {
		accent.Fprintf(w, "Editing: %s (%s)\n", v.Editing.Title, v.Editing.ID)
	}
}

func banner(w io.Writer, msg admin.Message) {
	if msg.Level == admin.LevelError {
		failure.Fprintf(w, "! %s\n", msg.Text)
		return
	}
	success.Fprintf(w, "* %s\n", msg.Text)
}

func stats(w io.Writer, s models.Stats) {
	fmt.Fprintf(w, "Items: %d (images %d, videos %d, links %d)  Messages: %d, unread %d\n",
		s.Portfolio.TotalItems, s.Portfolio.Images, s.Portfolio.Videos, s.Portfolio.Links,
		s.Contact.TotalMessages, s.Contact.UnreadMessages)
}

func items(w io.Writer, list []models.PortfolioItem) {
	if len(list) == 0 {
		faint.Fprintln(w, "No items yet.")
		return
	}

	for _, item := range list {
		status := success.Sprint("active")
		if !item.IsActive {
			status = faint.Sprint("inactive")
		}
		fmt.Fprintf(w, "%s %s [%s] %s %s\n",
			typeIcon(item.Type), item.Title, status, item.Category, item.CreatedAt.Format(dateLayout))
		faint.Fprintf(w, "      id %s\n", item.ID)
		tags(w, item.Tags)
	}
}

func draft(w io.Writer, d admin.Draft, p *admin.Preview) {
	fmt.Fprintf(w, "  %-12s %s\n", "type:", d.Type)
	fmt.Fprintf(w, "  %-12s %s\n", "title:", d.Title)
	fmt.Fprintf(w, "  %-12s %s\n", "description:", d.Description)
	fmt.Fprintf(w, "  %-12s %s\n", "category:", d.Category)
	if d.Type == models.ItemTypeLink {
		fmt.Fprintf(w, "  %-12s %s\n", "url:", d.URL)
	} else {
		file := d.File
		if file == "" {
			file = faint.Sprint("no file selected")
		}
		fmt.Fprintf(w, "  %-12s %s\n", "file:", file)
	}
	fmt.Fprintf(w, "  %-12s %s\n", "tags:", d.Tags)

	if p != nil {
		faint.Fprintf(w, "  preview #%d %s (%s)\n", p.Handle, p.Path, p.Kind)
	}
}

func tags(w io.Writer, list []string) {
	if len(list) == 0 {
		return
	}
	marked := make([]string, len(list))
	for i, t := range list {
		marked[i] = "#" + t
	}
	faint.Fprintf(w, "      %s\n", strings.Join(marked, " "))
}
