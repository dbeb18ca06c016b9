package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/maelbrgt/instagrid/app/grid"
)

// Options are the display knobs accepted on the grid endpoint.
type Options struct {
	Cols         int
	Gap          int
	Radius       int
	ShowCaptions bool
}

func DefaultOptions() Options {
	return Options{Cols: 3, Gap: 6, Radius: 12}
}

// Renderer emits a self-contained HTML document: grid layout, filter bar
// driven by the facets, and a lightbox for browsing each item's media.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("grid").Parse(pageTemplate)),
	}
}

type facetView struct {
	Name  string
	Count int
}

type itemView struct {
	Name        string
	Description string
	Status      string
	Pinned      bool
	Platforms   string // pipe-joined, consumed by the client-side filter
	Cover       grid.MediaRef
	CoverVideo  bool
	MediaJSON   string
}

type pageData struct {
	Opts      Options
	Items     []itemView
	Statuses  []facetView
	Platforms []facetView
}

func (r *Renderer) Run(result *grid.Result, opts Options) (string, error) {
	if opts.Cols <= 0 {
		opts.Cols = 3
	}

	data := pageData{
		Opts:      opts,
		Items:     make([]itemView, 0, len(result.Items)),
		Statuses:  facetViews(result.Facets.Statuses),
		Platforms: facetViews(result.Facets.Platforms),
	}

	for _, item := range result.Items {
		mediaJSON, err := json.Marshal(item.Media)
		if err != nil {
			return "", fmt.Errorf("failed to encode media list: %w", err)
		}
		data.Items = append(data.Items, itemView{
			Name:        item.Name,
			Description: item.Description,
			Status:      item.Status,
			Pinned:      item.Pinned,
			Platforms:   joinPlatforms(item.Platforms),
			Cover:       item.Media[0],
			CoverVideo:  item.Media[0].Type == grid.MediaVideo,
			MediaJSON:   string(mediaJSON),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}

// facetViews flattens a frequency map into a stable, alphabetical list.
func facetViews(counts map[string]int) []facetView {
	views := make([]facetView, 0, len(counts))
	for name, count := range counts {
		views = append(views, facetView{Name: name, Count: count})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Name < views[j].Name
	})
	return views
}

func joinPlatforms(platforms []string) string {
	return strings.Join(platforms, "|")
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>Media Grid</title>
<style>
  :root { --gap:{{.Opts.Gap}}px; --radius:{{.Opts.Radius}}px; }
  * { box-sizing: border-box; }
  body { margin:0; font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial; }
  .wrap { padding: var(--gap); }
  .filters { display:flex; flex-wrap:wrap; gap:6px; margin-bottom:var(--gap); }
  .chip { padding:4px 10px; font-size:12px; border-radius:999px; border:1px solid #ddd; background:#fff; cursor:pointer; }
  .chip.active { background:#111; color:#fff; border-color:#111; }
  .grid { display:grid; grid-template-columns: repeat({{.Opts.Cols}}, 1fr); gap: var(--gap); }
  .item { position:relative; aspect-ratio:1/1; overflow:hidden; border-radius:var(--radius); background:#f2f2f2; cursor:pointer; }
  .item.hidden { display:none; }
  .item img, .item video { width:100%; height:100%; object-fit:cover; display:block; }
  .badge { position:absolute; top:8px; left:8px; padding:4px 8px; font-size:12px; border-radius:999px; background:rgba(0,0,0,.7); color:#fff; backdrop-filter:blur(4px); }
  .pin { position:absolute; top:8px; right:8px; font-size:14px; }
  .caption { font-size:12px; color:#444; line-height:1.3; margin-top:6px; display:-webkit-box; -webkit-line-clamp:2; -webkit-box-orient:vertical; overflow:hidden; }
  .lightbox { position:fixed; inset:0; background:rgba(0,0,0,.85); display:none; align-items:center; justify-content:center; z-index:10; }
  .lightbox.open { display:flex; }
  .lightbox img, .lightbox video { max-width:92vw; max-height:88vh; border-radius:8px; }
  .lightbox .nav { position:absolute; top:50%; transform:translateY(-50%); color:#fff; font-size:32px; cursor:pointer; user-select:none; padding:0 16px; }
  .lightbox .prev { left:0; } .lightbox .next { right:0; }
  @media (max-width:640px){ .grid { grid-template-columns: repeat(2,1fr); } }
</style>
</head>
<body>
  <div class="wrap">
    {{if or .Statuses .Platforms}}
    <div class="filters">
      {{range .Statuses}}<button class="chip" data-filter="status" data-value="{{.Name}}">{{.Name}} ({{.Count}})</button>{{end}}
      {{range .Platforms}}<button class="chip" data-filter="platform" data-value="{{.Name}}">{{.Name}} ({{.Count}})</button>{{end}}
    </div>
    {{end}}
    <div class="grid">
      {{range .Items}}
      <figure class="item" title="{{.Name}}" data-status="{{.Status}}" data-platforms="{{.Platforms}}" data-media="{{.MediaJSON}}">
        {{if .CoverVideo}}<video src="{{.Cover.URL}}" muted loop playsinline preload="metadata"></video>
        {{else}}<img src="{{.Cover.URL}}" alt="{{.Name}}" loading="lazy" />{{end}}
        {{if .Status}}<figcaption class="badge">{{.Status}}</figcaption>{{end}}
        {{if .Pinned}}<span class="pin">&#128204;</span>{{end}}
      </figure>
      {{end}}
    </div>
    {{if .Opts.ShowCaptions}}<div style="margin-top:var(--gap);display:grid;gap:var(--gap);grid-template-columns:repeat({{.Opts.Cols}},1fr);">
      {{range .Items}}<div class="caption">{{.Name}}</div>{{end}}
    </div>{{end}}
  </div>
  <div class="lightbox" id="lightbox">
    <span class="nav prev">&#8249;</span>
    <div id="lightbox-media"></div>
    <span class="nav next">&#8250;</span>
  </div>
<script>
(function () {
  var activeStatus = null, activePlatforms = [];
  function applyFilters() {
    document.querySelectorAll('.item').forEach(function (el) {
      var okStatus = !activeStatus || el.dataset.status === activeStatus;
      var tags = el.dataset.platforms ? el.dataset.platforms.split('|') : [];
      var okPlatform = activePlatforms.length === 0 || activePlatforms.some(function (p) { return tags.indexOf(p) >= 0; });
      el.classList.toggle('hidden', !(okStatus && okPlatform));
    });
  }
  document.querySelectorAll('.chip').forEach(function (chip) {
    chip.addEventListener('click', function () {
      var value = chip.dataset.value;
      if (chip.dataset.filter === 'status') {
        activeStatus = activeStatus === value ? null : value;
        document.querySelectorAll('.chip[data-filter="status"]').forEach(function (c) {
          c.classList.toggle('active', c.dataset.value === activeStatus);
        });
      } else {
        var i = activePlatforms.indexOf(value);
        if (i >= 0) { activePlatforms.splice(i, 1); } else { activePlatforms.push(value); }
        chip.classList.toggle('active', i < 0);
      }
      applyFilters();
    });
  });
  var lightbox = document.getElementById('lightbox');
  var holder = document.getElementById('lightbox-media');
  var media = [], index = 0;
  function show(i) {
    index = (i + media.length) % media.length;
    var m = media[index];
    holder.innerHTML = m.Type === 'video'
      ? '<video src="' + m.URL + '" controls autoplay playsinline></video>'
      : '<img src="' + m.URL + '" />';
  }
  document.querySelectorAll('.item').forEach(function (el) {
    el.addEventListener('click', function () {
      media = JSON.parse(el.dataset.media || '[]');
      if (media.length === 0) return;
      lightbox.classList.add('open');
      show(0);
    });
  });
  lightbox.querySelector('.prev').addEventListener('click', function (e) { e.stopPropagation(); show(index - 1); });
  lightbox.querySelector('.next').addEventListener('click', function (e) { e.stopPropagation(); show(index + 1); });
  lightbox.addEventListener('click', function (e) {
    if (e.target === lightbox || e.target === holder) { lightbox.classList.remove('open'); holder.innerHTML = ''; }
  });
})();
</script>
</body>
</html>`
