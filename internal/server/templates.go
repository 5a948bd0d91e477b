package server

import (
	"html/template"
	"log"
	"net/http"
)

// editorPage is the Go html/template for the editor shell: a canvas
// iframe, the component list and a three-tab source panel wired to the
// websocket stream and the source API.
const editorPage = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Scheme}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>pagemason</title>
  <style>
    :root { --bg: #ffffff; --fg: #1f2430; --border: #d8dce4; --accent: #3b6fe0; }
    [data-theme="dark"] { --bg: #15181f; --fg: #dde2ec; --border: #333a47; --accent: #6b96f5; }
    * { box-sizing: border-box; }
    body { margin: 0; display: flex; height: 100vh; font-family: system-ui, sans-serif; background: var(--bg); color: var(--fg); }
    aside { width: 220px; border-right: 1px solid var(--border); padding: 0.75rem; overflow-y: auto; }
    aside li { cursor: pointer; padding: 0.2rem 0.4rem; list-style: none; }
    aside li.selected { background: var(--accent); color: #fff; border-radius: 3px; }
    main { flex: 1; display: flex; flex-direction: column; }
    iframe { flex: 1; border: 0; background: #fff; }
    .source { height: 40%; border-top: 1px solid var(--border); display: flex; flex-direction: column; }
    .tabs { display: flex; gap: 0.25rem; padding: 0.4rem; border-bottom: 1px solid var(--border); }
    .tabs button { padding: 0.25rem 0.75rem; border: 1px solid var(--border); background: transparent; color: var(--fg); cursor: pointer; }
    .tabs button.active { background: var(--accent); color: #fff; border-color: var(--accent); }
    .tabs .spacer { flex: 1; }
    textarea { flex: 1; resize: none; border: 0; padding: 0.5rem; font-family: ui-monospace, monospace; font-size: 13px; background: var(--bg); color: var(--fg); }
    textarea:focus { outline: none; }
    label.advanced { font-size: 12px; display: flex; align-items: center; gap: 0.3rem; }
  </style>
</head>
<body>
  <aside>
    <h3>Components</h3>
    <ul id="components"></ul>
  </aside>
  <main>
    <iframe id="canvas" title="canvas"></iframe>
    <section class="source">
      <div class="tabs">
        <button data-tab="html" class="active">HTML</button>
        <button data-tab="css">CSS</button>
        <button data-tab="js">JS</button>
        <div class="spacer"></div>
        <label class="advanced"><input type="checkbox" id="advanced"> advanced editing</label>
        <button id="format">Format</button>
        <button id="apply">Apply</button>
        <button id="export">Export</button>
      </div>
      <textarea id="editor" spellcheck="false"></textarea>
    </section>
  </main>
  <script>{{.Script}}</script>
</body>
</html>`

// editorScript drives the shell: it keeps per-tab buffers, repaints the
// canvas and component list from websocket pushes, and forwards edits and
// host color-scheme reports back to the server.
const editorScript = `(function() {
  var source = { html: "", css: "", js: "" };
  var tab = "html";
  var editor = document.getElementById("editor");
  var canvas = document.getElementById("canvas");

  function render() {
    editor.value = source[tab];
    var doc = "<!DOCTYPE html><html><head><style>" + source.css +
      "</style></head><body>" + source.html + "</body></html>";
    canvas.srcdoc = doc;
  }

  function refreshComponents() {
    fetch("/api/components").then(function(r) { return r.json(); }).then(function(list) {
      var ul = document.getElementById("components");
      ul.innerHTML = "";
      (list || []).forEach(function(c) {
        var li = document.createElement("li");
        li.textContent = c.tag;
        li.onclick = function() { ws.send(JSON.stringify({ type: "select", id: c.id })); markSelected(li); };
        ul.appendChild(li);
      });
    });
  }

  function markSelected(li) {
    document.querySelectorAll("#components li").forEach(function(el) { el.classList.remove("selected"); });
    li.classList.add("selected");
  }

  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onopen = function() {
    var dark = window.matchMedia("(prefers-color-scheme: dark)");
    ws.send(JSON.stringify({ type: "preference", scheme: dark.matches ? "dark" : "light" }));
    dark.addEventListener("change", function(e) {
      ws.send(JSON.stringify({ type: "preference", scheme: e.matches ? "dark" : "light" }));
    });
  };
  ws.onmessage = function(ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "source") {
      source = msg.source;
      render();
      refreshComponents();
    } else if (msg.type === "theme") {
      document.documentElement.setAttribute("data-theme", msg.scheme);
    }
  };

  document.querySelectorAll(".tabs button[data-tab]").forEach(function(btn) {
    btn.onclick = function() {
      source[tab] = editor.value;
      tab = btn.dataset.tab;
      document.querySelectorAll(".tabs button[data-tab]").forEach(function(b) { b.classList.remove("active"); });
      btn.classList.add("active");
      editor.value = source[tab];
    };
  });

  document.getElementById("advanced").onchange = function(e) {
    fetch("/api/source/advanced", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ enabled: e.target.checked })
    });
  };

  document.getElementById("format").onclick = function() {
    fetch("/api/source/format", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ tab: tab, text: editor.value })
    }).then(function(r) { return r.json(); }).then(function(res) {
      if (res.text !== undefined) { editor.value = res.text; source[tab] = res.text; }
    });
  };

  document.getElementById("apply").onclick = function() {
    fetch("/api/source/apply", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ tab: tab, text: editor.value })
    }).then(function(r) {
      if (!r.ok) { r.json().then(function(res) { alert(res.error); }); }
    });
  };

  document.getElementById("export").onclick = function() {
    fetch("/api/export", { method: "POST" }).then(function(r) { return r.json(); }).then(function(b) {
      alert("Exported " + b.files.length + " files as " + b.base + ".*");
    });
  };

  window.addEventListener("input", function(e) {
    if (e.target === editor) { source[tab] = editor.value; }
  });
})();`

var editorTemplate = template.Must(template.New("editor").Parse(editorPage))

// handleIndex serves the editor shell.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Scheme string
		Script template.JS
	}{
		Scheme: string(s.resolver.Resolved()),
		Script: template.JS(editorScript),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := editorTemplate.Execute(w, data); err != nil {
		log.Printf("rendering editor page: %v", err)
	}
}
