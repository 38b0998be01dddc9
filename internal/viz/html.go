package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("dashboard").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title    string // Page heading
	MaxWords int    // Words drawn in the cloud; 0 draws all
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Title:    "CORD-19 Data Explorer",
		MaxWords: 200,
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title       string
	Interactive bool
	Bounds      Bounds
	Payload     template.JS
}

// GenerateHTML renders a self-contained report for one dashboard.
func GenerateHTML(d *Dashboard, opts HTMLOptions) (string, error) {
	if d == nil {
		return "", fmt.Errorf("dashboard cannot be nil")
	}
	if err := validateOptions(opts); err != nil {
		return "", err
	}

	if d.IsEmpty() {
		return generateEmptyHTML(opts.Title, d.Status)
	}

	if opts.MaxWords > 0 && len(d.Words) > opts.MaxWords {
		trimmed := *d
		trimmed.Words = d.Words[:opts.MaxWords]
		d = &trimmed
	}

	payload, err := d.ToJSON()
	if err != nil {
		return "", err
	}

	return render(templateData{
		Title:   opts.Title,
		Bounds:  d.Bounds,
		Payload: template.JS(payload),
	})
}

// InteractivePage renders the page served at / by the dashboard server. Its
// script fetches /api/view whenever the year range changes.
func InteractivePage(b Bounds, opts HTMLOptions) (string, error) {
	if err := validateOptions(opts); err != nil {
		return "", err
	}
	return render(templateData{
		Title:       opts.Title,
		Interactive: true,
		Bounds:      b,
		Payload:     template.JS("null"),
	})
}

func render(data templateData) (string, error) {
	if data.Title == "" {
		data.Title = DefaultOptions().Title
	}
	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func validateOptions(opts HTMLOptions) error {
	if opts.MaxWords < 0 {
		return fmt.Errorf("invalid max words %d: must be >= 0", opts.MaxWords)
	}
	return nil
}

var emptyTemplate = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} - No data</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No papers in this range</h2>
    <p>{{.Status}}</p>
    <p>Widen the range with <code>--from</code> and <code>--to</code>, or run <code>pview bounds</code></p>
  </div>
</body>
</html>`))

// generateEmptyHTML returns HTML for a range with no papers.
func generateEmptyHTML(title, status string) (string, error) {
	if title == "" {
		title = DefaultOptions().Title
	}
	var buf bytes.Buffer
	if err := emptyTemplate.Execute(&buf, struct{ Title, Status string }{title, status}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
  <script src="https://cdn.jsdelivr.net/npm/wordcloud@1.2.2/src/wordcloud2.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0 auto;
      padding: 1em 2em;
      max-width: 1000px;
      background: #f5f5f5;
      color: #333;
    }
    section {
      background: white;
      border-radius: 4px;
      box-shadow: 0 1px 4px rgba(0,0,0,0.1);
      padding: 1em;
      margin-bottom: 1.5em;
    }
    h2 {
      font-size: 1.1em;
      margin-top: 0;
    }
    #controls label {
      margin-right: 1em;
    }
    #controls input {
      width: 6em;
    }
    #empty {
      display: none;
      text-align: center;
      color: #666;
    }
    #cloud {
      width: 100%;
      height: 400px;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 13px;
    }
    th, td {
      text-align: left;
      padding: 4px 8px;
      border-bottom: 1px solid #eee;
      vertical-align: top;
    }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p>Explore COVID-19 research papers from the CORD-19 dataset</p>

  {{if .Interactive}}
  <section id="controls">
    <h2>Select Year Range</h2>
    <label>From <input id="from" type="number" min="{{.Bounds.MinYear}}" max="{{.Bounds.MaxYear}}" value="{{.Bounds.MinYear}}"></label>
    <label>To <input id="to" type="number" min="{{.Bounds.MinYear}}" max="{{.Bounds.MaxYear}}" value="{{.Bounds.MaxYear}}"></label>
  </section>
  {{end}}

  <h3 id="status"></h3>
  <section id="empty">
    <h2>No papers in this range</h2>
  </section>

  <div id="panels">
    <section>
      <h2>Publications by Year</h2>
      <canvas id="years"></canvas>
    </section>
    <section>
      <h2>Top Journals</h2>
      <canvas id="journals"></canvas>
    </section>
    <section>
      <h2>Word Cloud of Titles</h2>
      <canvas id="cloud" width="800" height="400"></canvas>
    </section>
    <section>
      <h2>Sample Data</h2>
      <table>
        <thead><tr><th>Title</th><th>Journal</th><th>Published</th><th>Source</th></tr></thead>
        <tbody id="sample"></tbody>
      </table>
    </section>
  </div>

  <script>
    (function() {
      const initial = {{.Payload}};
      const charts = {};

      function escapeHtml(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      function bar(id, series, color, horizontal) {
        if (charts[id]) charts[id].destroy();
        charts[id] = new Chart(document.getElementById(id), {
          type: 'bar',
          data: {
            labels: series.labels,
            datasets: [{ data: series.values, backgroundColor: color }]
          },
          options: {
            indexAxis: horizontal ? 'y' : 'x',
            plugins: { legend: { display: false } },
            animation: false
          }
        });
      }

      function render(data) {
        document.getElementById('status').textContent = data.status;
        const empty = !data.total;
        document.getElementById('empty').style.display = empty ? 'block' : 'none';
        document.getElementById('panels').style.display = empty ? 'none' : 'block';
        if (empty) return;

        bar('years', data.years, '#4A90D9', false);
        bar('journals', data.journals, '#2CA58D', true);

        const cloud = document.getElementById('cloud');
        if (window.WordCloud && WordCloud.isSupported && data.word_list.length > 0) {
          const max = data.word_list[0][1];
          WordCloud(cloud, {
            list: data.word_list,
            weightFactor: function(w) { return 10 + 60 * w / max; },
            backgroundColor: '#ffffff',
            clearCanvas: true
          });
        }

        document.getElementById('sample').innerHTML = data.sample.map(function(p) {
          return '<tr><td>' + escapeHtml(p.title) + '</td><td>' + escapeHtml(p.journal) +
                 '</td><td>' + escapeHtml((p.publish_time || '').slice(0, 10)) +
                 '</td><td>' + escapeHtml(p.source) + '</td></tr>';
        }).join('');
      }

      if (initial) {
        render(initial);
        return;
      }

      const from = document.getElementById('from');
      const to = document.getElementById('to');

      function refresh() {
        const url = '/api/view?from=' + encodeURIComponent(from.value) + '&to=' + encodeURIComponent(to.value);
        fetch(url)
          .then(function(resp) {
            if (!resp.ok) throw new Error(resp.status + ' ' + resp.statusText);
            return resp.json();
          })
          .then(render)
          .catch(function(err) {
            document.getElementById('status').textContent = 'Error: ' + err.message;
          });
      }

      from.addEventListener('change', refresh);
      to.addEventListener('change', refresh);
      refresh();
    })();
  </script>
</body>
</html>`
