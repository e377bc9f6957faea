package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"smarttasks/internal/config"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Edit     key.Binding
	View     key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Search   key.Binding
	Category key.Binding
	SaveAs   key.Binding
	LoadFrom key.Binding
	Quit     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Up:       binding("move up", k.Up, "up"),
		Down:     binding("move down", k.Down, "down"),
		Add:      binding("add", k.Add),
		Edit:     binding("edit", k.Edit),
		View:     binding("view", k.View),
		Toggle:   binding("toggle", k.Toggle),
		Delete:   binding("delete", k.Delete),
		Search:   binding("search", k.Search),
		Category: binding("category", k.Category),
		SaveAs:   binding("save as", k.SaveAs),
		LoadFrom: binding("load from", k.LoadFrom),
		Quit:     binding("quit", k.Quit, "ctrl+c"),
		Confirm:  binding("confirm", k.Confirm),
		Cancel:   binding("cancel", k.Cancel),
	}
}

// binding builds a key.Binding from configured key names. Empty names are
// dropped so an unset config entry does not match every unknown key.
func binding(desc string, keys ...string) key.Binding {
	var ks []string
	for _, k := range keys {
		if k != "" {
			ks = append(ks, k)
		}
	}
	label := ""
	if len(ks) > 0 {
		label = keyLabel(ks[0])
	}
	return key.NewBinding(key.WithKeys(ks...), key.WithHelp(label, desc))
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.View, k.Toggle, k.Delete, k.Search, k.Category, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.View},
		{k.Add, k.Edit, k.Delete},
		{k.Search, k.Category},
		{k.SaveAs, k.LoadFrom, k.Quit},
	}
}
